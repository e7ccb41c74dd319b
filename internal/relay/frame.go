package relay

import (
	"encoding/json"
	"fmt"

	"groupctl/internal/domain"
)

// Frame labels. The first element of every wire frame selects the variant.
const (
	labelAuth  = "AUTH"
	labelEvent = "EVENT"
	labelEOSE  = "EOSE"
	labelOK    = "OK"
	labelReq   = "REQ"
	labelClose = "CLOSE"
)

// Frame is one relay protocol frame, inbound or outbound.
type Frame interface {
	Label() string
}

// AuthChallengeFrame is the server-issued ["AUTH", <challenge>] greeting.
type AuthChallengeFrame struct {
	Challenge string
}

func (f *AuthChallengeFrame) Label() string { return labelAuth }

func (f *AuthChallengeFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelAuth, f.Challenge})
}

// AuthSubmitFrame is the client's ["AUTH", <signed event>] answer.
type AuthSubmitFrame struct {
	Event domain.Event
}

func (f *AuthSubmitFrame) Label() string { return labelAuth }

func (f *AuthSubmitFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelAuth, f.Event})
}

// EventFrame is an inbound ["EVENT", <sub>, <event>] carrying a stored event
// for a subscription.
type EventFrame struct {
	Sub   string
	Event domain.Event
}

func (f *EventFrame) Label() string { return labelEvent }

func (f *EventFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelEvent, f.Sub, f.Event})
}

// EventSubmitFrame is an outbound ["EVENT", <signed event>] submission.
type EventSubmitFrame struct {
	Event domain.Event
}

func (f *EventSubmitFrame) Label() string { return labelEvent }

func (f *EventSubmitFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelEvent, f.Event})
}

// EOSEFrame marks the end of stored events for a subscription.
type EOSEFrame struct {
	Sub string
}

func (f *EOSEFrame) Label() string { return labelEOSE }

func (f *EOSEFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelEOSE, f.Sub})
}

// OKFrame acknowledges a submitted event by identifier.
type OKFrame struct {
	EventID  string
	Accepted bool
	Message  string
}

func (f *OKFrame) Label() string { return labelOK }

func (f *OKFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelOK, f.EventID, f.Accepted, f.Message})
}

// ReqFrame opens a subscription with a filter.
type ReqFrame struct {
	Sub    string
	Filter domain.Filter
}

func (f *ReqFrame) Label() string { return labelReq }

func (f *ReqFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelReq, f.Sub, f.Filter})
}

// CloseFrame releases a subscription server-side.
type CloseFrame struct {
	Sub string
}

func (f *CloseFrame) Label() string { return labelClose }

func (f *CloseFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{labelClose, f.Sub})
}

// ParseFrame decodes one inbound frame. Unknown labels return (nil, nil) so
// unrecognised traffic is ignored rather than fatal; a frame that fails to
// parse as its declared variant returns an error.
func ParseFrame(data []byte) (Frame, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, fmt.Errorf("frame is not a JSON array: %w", err)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	var label string
	if err := json.Unmarshal(arr[0], &label); err != nil {
		return nil, fmt.Errorf("frame label is not a string: %w", err)
	}

	switch label {
	case labelAuth:
		if len(arr) < 2 {
			return nil, fmt.Errorf("AUTH frame missing challenge")
		}
		var challenge string
		if err := json.Unmarshal(arr[1], &challenge); err != nil {
			return nil, fmt.Errorf("AUTH challenge is not a string: %w", err)
		}
		return &AuthChallengeFrame{Challenge: challenge}, nil

	case labelEvent:
		if len(arr) < 3 {
			return nil, fmt.Errorf("EVENT frame needs subscription and event")
		}
		var sub string
		if err := json.Unmarshal(arr[1], &sub); err != nil {
			return nil, fmt.Errorf("EVENT subscription is not a string: %w", err)
		}
		var ev domain.Event
		if err := json.Unmarshal(arr[2], &ev); err != nil {
			return nil, fmt.Errorf("EVENT payload: %w", err)
		}
		return &EventFrame{Sub: sub, Event: ev}, nil

	case labelEOSE:
		if len(arr) < 2 {
			return nil, fmt.Errorf("EOSE frame missing subscription")
		}
		var sub string
		if err := json.Unmarshal(arr[1], &sub); err != nil {
			return nil, fmt.Errorf("EOSE subscription is not a string: %w", err)
		}
		return &EOSEFrame{Sub: sub}, nil

	case labelOK:
		if len(arr) < 3 {
			return nil, fmt.Errorf("OK frame needs event id and verdict")
		}
		f := &OKFrame{}
		if err := json.Unmarshal(arr[1], &f.EventID); err != nil {
			return nil, fmt.Errorf("OK event id is not a string: %w", err)
		}
		if err := json.Unmarshal(arr[2], &f.Accepted); err != nil {
			return nil, fmt.Errorf("OK verdict is not a bool: %w", err)
		}
		if len(arr) > 3 {
			if err := json.Unmarshal(arr[3], &f.Message); err != nil {
				return nil, fmt.Errorf("OK message is not a string: %w", err)
			}
		}
		return f, nil

	default:
		// Unknown variant: not fatal, callers drop it.
		return nil, nil
	}
}
