package dashboard

import (
	"errors"
	"strings"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/internal/validation"
)

// Op names a dashboard operation for user messages
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Kind classifies a notice
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is a short message for the administrator about an operation's outcome
type Notice struct {
	Kind    Kind
	Message string
}

var (
	successMessages = map[Op]string{
		OpLoad:   "Menu loaded",
		OpCreate: "Item added successfully",
		OpUpdate: "Item updated successfully",
		OpDelete: "Item deleted successfully",
	}
	failureMessages = map[Op]string{
		OpLoad:   "Failed to load menu items",
		OpCreate: "Operation failed",
		OpUpdate: "Operation failed",
		OpDelete: "Failed to delete item",
	}
)

// NoticeFor turns the result of op into a notice. A server-supplied message
// takes precedence over the generic failure text.
func NoticeFor(op Op, err error) Notice {
	if err == nil {
		return Notice{Kind: KindSuccess, Message: successMessages[op]}
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, field := range verrs.Fields() {
			msgs = append(msgs, verrs[field])
		}
		return Notice{Kind: KindWarning, Message: strings.Join(msgs, ". ")}
	}

	var reloadErr *ReloadError
	if errors.As(err, &reloadErr) {
		return Notice{
			Kind:    KindWarning,
			Message: successMessages[op] + " but " + lowerFirst(failureFor(OpLoad, reloadErr.Err)),
		}
	}

	return Notice{Kind: KindError, Message: failureFor(op, err)}
}

func failureFor(op Op, err error) string {
	if msg, ok := api.ServerMessage(err); ok {
		return msg
	}
	return failureMessages[op]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
