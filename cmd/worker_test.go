package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-tracker/internal/auth"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (auth.PurgeResult, error) {
	p.calls.Add(1)
	return auth.PurgeResult{BlocklistRemoved: 1}, p.err
}

var _ = Describe("runCleanup", func() {
	var lg *slog.Logger

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("runs a single pass with once", func() {
		p := &countingPurger{}
		Expect(runCleanup(context.Background(), p, time.Hour, true, lg)).To(Succeed())
		Expect(p.calls.Load()).To(Equal(int32(1)))
	})

	It("reports the error of a single failed pass", func() {
		p := &countingPurger{err: errors.New("db down")}
		Expect(runCleanup(context.Background(), p, time.Hour, true, lg)).To(MatchError("db down"))
	})

	It("keeps purging on every tick until cancelled", func() {
		p := &countingPurger{err: errors.New("transient")}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- runCleanup(ctx, p, 5*time.Millisecond, false, lg) }()

		Eventually(p.calls.Load).Should(BeNumerically(">=", 3))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
