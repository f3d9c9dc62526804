package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hrassist/chathub/domain"
)

// The client parses these directives out of reply text to render buttons.
// With arguments the payload is pipe-separated Label:value pairs; without
// arguments the client shows the main options.
const (
	directiveMainOptions = "[HELP_MAIN_OPTIONS]"
	startChatToken       = "start_chat"
	backToMenuEntry      = "⬅️ Back:bot_main_options"
)

var greetingRE = regexp.MustCompile(`^(hi|hello|hey|menu|start)$`)

// generateReply is the stateless dialogue engine: a pure function of the
// inbound text and the menu snapshot. The current menu position is never
// stored; every turn re-derives the node by matching the literal input
// against all tree levels.
func generateReply(menu *domain.MenuTree, rawMessage string) string {
	message := strings.ToLower(strings.TrimSpace(rawMessage))

	if message == startChatToken || message == "" {
		return renderMainMenu(menu)
	}

	if greetingRE.MatchString(message) {
		return renderMainMenu(menu)
	}

	for _, main := range menu.Mains {
		if strings.ToLower(main.Value) == message {
			return renderSubOptions(menu, main)
		}
	}

	for _, sub := range menu.Subs {
		if strings.ToLower(sub.Value) == message {
			return renderAnswer(menu, sub)
		}
	}

	return "I didn't understand that.\n\n" + directiveMainOptions
}

func renderMainMenu(menu *domain.MenuTree) string {
	if len(menu.Mains) == 0 {
		return "No menu options available."
	}

	pairs := make([]string, len(menu.Mains))
	for i, o := range menu.Mains {
		pairs[i] = o.Label + ":" + o.Value
	}
	return fmt.Sprintf("👋 Hello! Please choose a category:\n\n[HELP_MAIN_OPTIONS:%s]", strings.Join(pairs, "|"))
}

func renderSubOptions(menu *domain.MenuTree, parent domain.MainOption) string {
	subs := menu.SubsFor(parent.MainOptionID)
	if len(subs) == 0 {
		return fmt.Sprintf("No topics available under **%s**.\n\n%s", parent.Label, directiveMainOptions)
	}

	buttons := make([]string, 0, len(subs)+1)
	for _, s := range subs {
		buttons = append(buttons, s.Label+":"+s.Value)
	}
	buttons = append(buttons, backToMenuEntry)

	return fmt.Sprintf("📂 **%s**\n\nSelect a topic:\n[HELP_MAIN_OPTIONS:%s]", parent.Label, strings.Join(buttons, "|"))
}

func renderAnswer(menu *domain.MenuTree, sub domain.SubOption) string {
	ans := menu.AnswerFor(sub.SubOptionID)
	if ans == nil {
		return fmt.Sprintf("No information found for **%s**.\n\n%s", sub.Label, directiveMainOptions)
	}
	return ans.AnswerText + "\n\n" + directiveMainOptions
}

// welcomeMessage is the synthesized reply opening every new session,
// regardless of what the user typed first.
func welcomeMessage(fullName string) string {
	return fmt.Sprintf("👋 Hi %s! Welcome to your HR Assistant.\nHow can I help you today?\nType *anything* to begin 😊\n\n%s", fullName, directiveMainOptions)
}
