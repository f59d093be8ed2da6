package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorText() {
	s.Equal("purpose 4 is not loaded", New(CodeNotFound, "purpose 4 is not loaded").Error())
	s.Equal("not_ready", (&Error{Code: CodeNotReady}).Error(), "falls back to the code")
}

// The coordinator wraps SDK failures as sdk_unavailable; a timeout or not
// ready error coming from the SDK adapter must keep its own code.
func (s *DomainErrorsSuite) TestWrapKeepsAdapterCode() {
	cases := []struct {
		name  string
		inner error
		want  Code
	}{
		{"plain transport error", errors.New("connection refused"), CodeSDKUnavailable},
		{"adapter timeout", Wrap(context.DeadlineExceeded, CodeTimeout, "cdn request timed out"), CodeTimeout},
		{"sdk not ready", New(CodeNotReady, "consent sdk is not ready"), CodeNotReady},
		{"fmt wrapped domain error", fmt.Errorf("get purposes: %w", New(CodeNotFound, "subject unknown")), CodeNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := Wrap(tc.inner, CodeSDKUnavailable, "Failed to get purposes")

			s.Equal(tc.want, CodeOf(err))
			s.True(HasCode(err, tc.want))
			s.Equal("Failed to get purposes", err.Error())
			s.ErrorIs(err, tc.inner)
		})
	}
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	err := Wrap(New(CodeInvalidConsent, "unknown is not settable"), CodeInternal, "set consent")

	s.ErrorIs(err, &Error{Code: CodeInvalidConsent})
	s.NotErrorIs(err, &Error{Code: CodeNotReady})
	s.False((&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
}

func (s *DomainErrorsSuite) TestUnwrapChain() {
	root := context.Canceled
	err := Wrap(root, CodeTimeout, "settle interrupted")

	s.Equal(root, errors.Unwrap(err))
	s.Nil(New(CodeValidation, "bad").(*Error).Unwrap())
}

func (s *DomainErrorsSuite) TestHasCodeAndCodeOf() {
	s.False(HasCode(nil, CodeNotFound))
	s.False(HasCode(errors.New("boom"), CodeInternal), "plain errors carry no code")
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.Equal(CodeInvalidConsent, CodeOf(New(CodeInvalidConsent, "unknown is not settable")))
}
