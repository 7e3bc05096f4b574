//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollTimeoutMs bounds each wait on stdin so a stop request is seen within it
const pollTimeoutMs = 100

// ttyBackend drives the process's own terminal
type ttyBackend struct {
	in, out *os.File
	saved   *term.State
	winch   *winchWatcher
	buf     [256]byte
}

// NewStdBackend returns the backend bound to the process stdin/stdout
func NewStdBackend() Backend {
	return &ttyBackend{in: os.Stdin, out: os.Stdout}
}

func (b *ttyBackend) inFd() int  { return int(b.in.Fd()) }
func (b *ttyBackend) outFd() int { return int(b.out.Fd()) }

// Init enters raw mode only when stdin is a terminal; piped or redirected
// input leaves termios alone and output still renders
func (b *ttyBackend) Init() error {
	if !term.IsTerminal(b.inFd()) {
		return nil
	}
	saved, err := term.MakeRaw(b.inFd())
	if err != nil {
		return err
	}
	b.saved = saved
	return nil
}

func (b *ttyBackend) Fini() error {
	if b.winch != nil {
		b.winch.stop()
		b.winch = nil
	}
	if b.saved == nil {
		return nil
	}
	saved := b.saved
	b.saved = nil
	return term.Restore(b.inFd(), saved)
}

func (b *ttyBackend) Interactive() bool { return b.saved != nil }

func (b *ttyBackend) Size() (int, int) { return windowSize(b.outFd()) }

func (b *ttyBackend) Write(p []byte) (int, error) { return b.out.Write(p) }

// Read returns the next chunk of keyboard input, or nil once stopCh closes
// or stdin reaches end of file
func (b *ttyBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		ready, err := readable(b.inFd(), pollTimeoutMs)
		if err != nil {
			return nil, err
		}
		if !ready {
			continue
		}

		n, err := unix.Read(b.inFd(), b.buf[:])
		switch {
		case retryable(err):
			continue
		case err != nil:
			return nil, err
		case n == 0:
			return nil, nil
		}
		return append([]byte(nil), b.buf[:n]...), nil
	}
}

func (b *ttyBackend) SetResizeHandler(handler func(width, height int)) {
	if b.winch != nil {
		b.winch.stop()
	}
	b.winch = watchWinch(func() { handler(b.Size()) })
}

// readable waits up to timeoutMs for input on fd; an interrupted poll counts as a timeout
func readable(fd, timeoutMs int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeoutMs)
	if errors.Is(err, unix.EINTR) {
		return false, nil
	}
	return n > 0, err
}

func retryable(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN)
}

// winchWatcher calls onResize for every SIGWINCH until stopped
type winchWatcher struct {
	quit chan struct{}
	done chan struct{}
}

func watchWinch(onResize func()) *winchWatcher {
	w := &winchWatcher{quit: make(chan struct{}), done: make(chan struct{})}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		defer close(w.done)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-w.quit:
				return
			case <-sigCh:
				onResize()
			}
		}
	}()
	return w
}

func (w *winchWatcher) stop() {
	close(w.quit)
	<-w.done
}

// windowSize asks the tty for its dimensions, assuming 80x24 when it can't answer
func windowSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}
