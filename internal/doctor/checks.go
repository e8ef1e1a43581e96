package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/lock"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
	"github.com/limit-lab/limit-up/internal/session"
)

// System is what the checks need from the host.
type System interface {
	pkgmanager.System
	session.System
}

// RealSystem inspects the running process and PATH.
type RealSystem struct {
	pkgmanager.RealSystem
	session.RealSystem
}

var (
	loadConfigFunc   = config.Load
	parseLenientFunc = config.ParseLenient
	readFileFunc     = os.ReadFile
	probeLockFunc    = lock.Probe
)

// CheckConfig loads the config at path. A missing file is a warning and yields the defaults.
// When strict loading fails but the TOML parses, CheckConfig reports the failure and still
// returns the leniently parsed config so later checks can run.
func CheckConfig(path string) ([]Result, *config.Config) {
	cfg, err := loadConfigFunc(path)
	if err == nil {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameConfig,
			Message:   fmt.Sprintf(messages.DoctorConfigLoadedFmt, path),
		}}, cfg
	}
	if errors.Is(err, fs.ErrNotExist) {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigMissingFmt, path),
			Recommendation: messages.DoctorConfigMissingRecommend,
		}}, config.Default()
	}
	if !errors.Is(err, config.ErrConfigValidation) {
		return []Result{configLoadFailure(err)}, nil
	}

	data, readErr := readFileFunc(path)
	if readErr != nil {
		return []Result{configLoadFailure(readErr)}, nil
	}
	lenient, lenientErr := parseLenientFunc(data, path)
	if lenientErr != nil {
		return []Result{configLoadFailure(lenientErr)}, nil
	}

	result := Result{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameConfig,
		Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
		Recommendation: messages.DoctorConfigLoadLenientRecommend,
	}
	if keys, keysErr := findUnknownKeysInFile(path); keysErr == nil && len(keys) > 0 {
		result.Message = fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, summarizeUnknownKeys(keys))
		result.Recommendation = unknownKeyRecommendation(path, keys)
	}
	return []Result{result}, lenient
}

func configLoadFailure(err error) Result {
	return Result{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameConfig,
		Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
		Recommendation: messages.DoctorConfigLoadRecommend,
	}
}

// CheckPrivilege reports how commands will gain administrative rights.
func CheckPrivilege(cfg *config.Config, sys System) Result {
	result := Result{CheckName: messages.DoctorCheckNamePrivilege}
	if sys.IsPrivileged() {
		result.Status = StatusOK
		result.Message = messages.DoctorPrivileged
		return result
	}
	req := sessionRequest(cfg)
	if req.ElevationTool == "" {
		result.Status = StatusFail
		result.Message = messages.DoctorElevationUnavailable
		result.Recommendation = messages.DoctorElevationUnavailableRecommend
		return result
	}
	path, err := sys.LookPath(req.ElevationTool)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf(messages.DoctorElevationMissingFmt, req.ElevationTool)
		result.Recommendation = messages.DoctorElevationMissingRecommend
		return result
	}
	result.Status = StatusOK
	result.Message = fmt.Sprintf(messages.DoctorElevationFoundFmt, req.ElevationTool, path)
	return result
}

// CheckShell verifies the session shell is on PATH.
func CheckShell(cfg *config.Config, sys System) Result {
	shell := sessionRequest(cfg).Shell
	path, err := sys.LookPath(shell)
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameShell,
			Message:        fmt.Sprintf(messages.DoctorShellMissingFmt, shell),
			Recommendation: messages.DoctorShellMissingRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameShell,
		Message:   fmt.Sprintf(messages.DoctorShellFoundFmt, shell, path),
	}
}

// CheckPackageManager reports which catalog entry an install would use.
func CheckPackageManager(cfg *config.Config, catalog pkgmanager.Catalog, sys System) Result {
	result := Result{CheckName: messages.DoctorCheckNameManager}
	supported := supportedNames(catalog)

	if name := strings.TrimSpace(cfg.Install.Manager); name != "" {
		desc, ok := catalog.Lookup(name)
		if !ok {
			result.Status = StatusFail
			result.Message = fmt.Sprintf(messages.DoctorManagerUnknownFmt, name)
			if hint := catalog.Suggest(name); hint != "" {
				result.Recommendation = fmt.Sprintf(messages.DoctorManagerUnknownHintFmt, hint, supported)
			} else {
				result.Recommendation = fmt.Sprintf(messages.DoctorManagerSupportedFmt, supported)
			}
			return result
		}
		path, err := sys.LookPath(desc.Name)
		if err != nil {
			result.Status = StatusWarn
			result.Message = fmt.Sprintf(messages.DoctorManagerForcedMissingFmt, desc.Name)
			result.Recommendation = fmt.Sprintf(messages.DoctorManagerForcedMissingRecommend, desc.Name)
			return result
		}
		result.Status = StatusOK
		result.Message = fmt.Sprintf(messages.DoctorManagerForcedFmt, desc.Name, path)
		return result
	}

	desc, err := catalog.Select(sys)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf(messages.DoctorManagerNoneFmt, supported)
		result.Recommendation = messages.HelpNoManager
		return result
	}
	path, _ := sys.LookPath(desc.Name)
	result.Status = StatusOK
	result.Message = fmt.Sprintf(messages.DoctorManagerDetectedFmt, desc.Name, path)
	return result
}

// CheckLock reports whether another install currently holds the lock at path.
func CheckLock(path string) Result {
	result := Result{CheckName: messages.DoctorCheckNameLock}
	busy, err := probeLockFunc(path)
	switch {
	case err != nil:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorLockFailedFmt, err)
	case busy:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorLockHeldFmt, path)
		result.Recommendation = messages.DoctorLockHeldRecommend
	default:
		result.Status = StatusOK
		result.Message = messages.DoctorLockFree
	}
	return result
}

// Run executes every check in display order.
func Run(configPath, lockPath string, catalog pkgmanager.Catalog, sys System) []Result {
	results, cfg := CheckConfig(configPath)
	if cfg == nil {
		cfg = config.Default()
	}
	results = append(results,
		CheckPrivilege(cfg, sys),
		CheckShell(cfg, sys),
		CheckPackageManager(cfg, catalog, sys),
		CheckLock(lockPath),
	)
	return results
}

func sessionRequest(cfg *config.Config) session.Request {
	return session.Request{
		Shell:         cfg.Auth.Shell,
		ElevationTool: cfg.Auth.ElevationTool,
	}.WithDefaults()
}

func supportedNames(catalog pkgmanager.Catalog) string {
	descriptors := catalog.Descriptors()
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", ")
}
