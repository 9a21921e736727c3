package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// stubAPI answers calls from respond. A string body is sent as raw JSON.
type stubAPI struct {
	mu      sync.Mutex
	calls   []ports.APIRequest
	respond func(call ports.APIRequest) (int, any)
}

func (s *stubAPI) Do(_ context.Context, call ports.APIRequest, out any) error {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	status, body := http.StatusOK, any(nil)
	if s.respond != nil {
		status, body = s.respond(call)
	}
	if status < 200 || status >= 300 {
		msg, _ := body.(string)
		return &domain.APIError{StatusCode: status, Message: msg}
	}
	if out == nil || body == nil {
		return nil
	}

	var raw []byte
	if str, ok := body.(string); ok {
		raw = []byte(str)
	} else {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, out)
}

func (s *stubAPI) lastCall() ports.APIRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ports.APIRequest{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
