// Package claimflow tracks what the credentials page shows while a claim runs:
// Idle → Loading → Success | Empty | Failed.
package claimflow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/votemonitor/internal/model"
	"github.com/votemonitor/internal/service"
)

type State int

const (
	Idle State = iota
	Loading
	Success
	Empty
	Failed
)

var ErrInvalidTransition = errors.New("invalid claim flow transition")

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == Success || s == Empty || s == Failed
}

// Flow is one run of the claim for one page load. Safe for concurrent use.
type Flow struct {
	mu    sync.Mutex
	state State
	creds *model.Credentials
	err   error
}

func New() *Flow {
	return &Flow{}
}

// Start moves Idle → Loading.
func (f *Flow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Idle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, f.state)
	}
	f.state = Loading
	return nil
}

// Finish moves Loading to its outcome: Success for a usable pair, Empty when the pair is
// missing or the pool is exhausted, Failed for any other error.
func (f *Flow) Finish(creds *model.Credentials, err error) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Loading {
		return f.state, fmt.Errorf("%w: finish from %s", ErrInvalidTransition, f.state)
	}
	switch {
	case err == nil && creds.Usable():
		f.state = Success
		f.creds = creds
	case err == nil, errors.Is(err, service.ErrNoAccountAvailable):
		f.state = Empty
	default:
		f.state = Failed
		f.err = err
	}
	return f.state, nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Credentials is set only in Success.
func (f *Flow) Credentials() *model.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds
}

// Err is the cause of a Failed outcome.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
