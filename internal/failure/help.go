package failure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/limit-lab/limit-up/internal/messages"
)

// Help topics for children that are not package managers.
const (
	TopicNetwork = "network"
	TopicGit     = "git"
)

var helpTable = map[string]string{
	TopicNetwork: messages.HelpNetworkFmt,
	TopicGit:     messages.HelpGitFmt,
	"apt-get":    messages.HelpAptGetFmt,
	"dnf":        messages.HelpDnfFmt,
	"pacman":     messages.HelpPacmanFmt,
	"zypper":     messages.HelpZypperFmt,
	"apk":        messages.HelpApkFmt,
	"pkg":        messages.HelpPkgFmt,
}

// Help returns the remediation text for a manager name or help topic.
// Unknown keys fall back to the network text.
func Help(key string) string {
	format, ok := helpTable[key]
	if !ok {
		format = messages.HelpNetworkFmt
	}
	return fmt.Sprintf(messages.HelpPrefixFmt, fmt.Sprintf(format, messages.HelpContactUs))
}

// Render builds the blocking notice shown when step fails with err.
// The text is the failure line followed by the matching help line.
func Render(step string, err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	if pf, ok := AsProcessFailed(err); ok {
		name := pf.Manager
		if name == "" {
			name = pf.Command
		}
		if name == "" {
			name = step
		}
		fmt.Fprintf(&b, messages.FailureExitStatusFmt, name, pf.ExitCode)
		b.WriteString("\n")
		b.WriteString(helpForFailure(pf))
		return b.String()
	}

	fmt.Fprintf(&b, messages.FailureDetailFmt, step, err)
	b.WriteString("\n")
	switch {
	case errors.Is(err, ErrPermissionDenied):
		fmt.Fprintf(&b, messages.HelpPrefixFmt, messages.HelpPermission)
	case errors.Is(err, ErrNotSupported):
		fmt.Fprintf(&b, messages.HelpPrefixFmt, messages.HelpNoManager)
	case errors.Is(err, ErrCanceled):
		fmt.Fprintf(&b, messages.HelpPrefixFmt, messages.HelpCanceled)
	default:
		b.WriteString(Help(TopicNetwork))
	}
	return b.String()
}

func helpForFailure(pf *ProcessFailedError) string {
	if pf.Manager != "" {
		return Help(pf.Manager)
	}
	if pf.Command == "git" {
		return Help(TopicGit)
	}
	return Help(TopicNetwork)
}
