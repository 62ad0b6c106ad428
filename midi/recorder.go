package midi

import "sync"

// Recorder is an in-memory Device. It keeps every message it accepts and
// can be told to fail selected sends.
type Recorder struct {
	mu     sync.Mutex
	msgs   []ShortMessage
	inited bool
	inits  int
	resets int
	closes int
	fail   func(ShortMessage) error

	// OnSend, when set, sees every accepted message after it is recorded.
	OnSend func(ShortMessage)
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith installs a hook consulted before each send; a non-nil result
// rejects the message.
func (r *Recorder) FailWith(fn func(ShortMessage) error) {
	r.mu.Lock()
	r.fail = fn
	r.mu.Unlock()
}

func (r *Recorder) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
	return nil
}

func (r *Recorder) init() {
	if !r.inited {
		r.inited = true
		r.inits++
	}
}

func (r *Recorder) Send(msg ShortMessage) error {
	r.mu.Lock()
	r.init()
	if msg.Len() == 0 {
		r.mu.Unlock()
		return &SinkError{Msg: msg, Err: ErrInvalidMessage}
	}
	if r.fail != nil {
		if err := r.fail(msg); err != nil {
			r.mu.Unlock()
			return &SinkError{Msg: msg, Err: err}
		}
	}
	r.msgs = append(r.msgs, msg)
	hook := r.OnSend
	r.mu.Unlock()

	if hook != nil {
		hook(msg)
	}
	return nil
}

func (r *Recorder) Reset() error {
	r.mu.Lock()
	r.resets++
	r.mu.Unlock()
	return silence(r)
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	r.inited = false
	return nil
}

// Messages returns a copy of everything accepted so far.
func (r *Recorder) Messages() []ShortMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ShortMessage(nil), r.msgs...)
}

// Counts reports how often each lifecycle hook ran.
func (r *Recorder) Counts() (inits, resets, closes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inits, r.resets, r.closes
}
