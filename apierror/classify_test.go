package apierror_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no response", &apierror.Error{Method: "GET", Path: "/x", Err: context.DeadlineExceeded}, apierror.MsgNetwork},
		{"plain error", fmt.Errorf("dial tcp: refused"), apierror.MsgNetwork},
		{"unbuildable request", fmt.Errorf("%w: encoding request body: bad", apierror.ErrInvalidRequest), apierror.MsgGeneric},
		{"undecodable 2xx", &apierror.Error{Status: 200, Err: fmt.Errorf("decoding response: bad")}, apierror.MsgGeneric},
		{"403", &apierror.Error{Status: 403, Body: []byte(`{"detail":"nope"}`)}, apierror.MsgForbidden},
		{"404", &apierror.Error{Status: 404}, apierror.MsgNotFound},
		{"500", &apierror.Error{Status: 500}, apierror.MsgServer},
		{"503", &apierror.Error{Status: 503}, apierror.MsgUnavailable},
		{"string detail", &apierror.Error{Status: 400, Body: []byte(`{"detail":"bad email"}`)}, "bad email"},
		{"list detail", &apierror.Error{Status: 422, Body: []byte(`{"detail":[{"msg":"too short"}]}`)}, "too short"},
		{"list detail message field", &apierror.Error{Status: 422, Body: []byte(`{"detail":[{"message":"weak"}]}`)}, "weak"},
		{"empty list detail", &apierror.Error{Status: 422, Body: []byte(`{"detail":[]}`)}, apierror.MsgValidation},
		{"list of non-objects", &apierror.Error{Status: 422, Body: []byte(`{"detail":[3]}`)}, apierror.MsgValidation},
		{"object detail", &apierror.Error{Status: 409, Body: []byte(`{"detail":{"message":"limit reached"}}`)}, "limit reached"},
		{"object detail msg", &apierror.Error{Status: 400, Body: []byte(`{"detail":{"msg":"odd"}}`)}, "odd"},
		{"object detail empty", &apierror.Error{Status: 400, Body: []byte(`{"detail":{}}`)}, apierror.MsgOccurred},
		{"empty body", &apierror.Error{Status: 400}, apierror.MsgGeneric},
		{"unrecognised body", &apierror.Error{Status: 400, Body: []byte(`<html>oops</html>`)}, apierror.MsgGeneric},
		{"numeric detail", &apierror.Error{Status: 400, Body: []byte(`{"detail":12}`)}, apierror.MsgGeneric},
		{"empty string detail", &apierror.Error{Status: 400, Body: []byte(`{"detail":""}`)}, apierror.MsgGeneric},
		{"nil", nil, apierror.MsgGeneric},
		{"wrapped", fmt.Errorf("creating goal: %w", &apierror.Error{Status: 400, Body: []byte(`{"detail":"bad"}`)}), "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierror.Classify(tt.err)
			require.NotEmpty(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetailCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &apierror.Error{
		Status: 403,
		Body:   []byte(`{"detail":{"message":"limit","code":"GOAL_LIMIT_REACHED","max_goals":2}}`),
	})
	require.Equal(t, "GOAL_LIMIT_REACHED", apierror.DetailCode(err))
	require.Equal(t, 403, apierror.StatusCode(err))
	require.True(t, apierror.IsStatus(err, 403))
	require.Empty(t, apierror.DetailCode(&apierror.Error{Status: 400, Body: []byte(`{"detail":"x"}`)}))
	require.Empty(t, apierror.DetailCode(fmt.Errorf("plain")))
	require.Zero(t, apierror.StatusCode(nil))
}

func TestErrorString(t *testing.T) {
	e := &apierror.Error{Method: "GET", Path: "/auth/me", Status: 401}
	require.Equal(t, "GET /auth/me: 401 Unauthorized", e.Error())

	e = &apierror.Error{Method: "GET", Path: "/auth/me", Err: context.Canceled}
	require.ErrorIs(t, e, context.Canceled)
	require.Contains(t, e.Error(), "no response")

	e = &apierror.Error{Method: "GET", Path: "/leaderboard", Status: 200, Err: fmt.Errorf("decoding response: bad")}
	require.Equal(t, "GET /leaderboard: 200 OK: decoding response: bad", e.Error())
	require.False(t, e.NoResponse())
}
