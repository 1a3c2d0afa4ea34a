package shutdown

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

const (
	// the default amount of time to wait for background processes to terminate. After that the process is killed.
	defaultWaitToKillTime = 300 * time.Second
)

// ShutdownHandler waits until a shutdown signal was received or the node tried to shutdown itself,
// and shuts down all processes gracefully.
type ShutdownHandler struct {
	log              *logger.Logger
	daemon           daemon.Daemon
	waitToKillTime   time.Duration
	gracefulStop     chan os.Signal
	nodeSelfShutdown chan string
}

// NewShutdownHandler creates a new shutdown handler.
// A waitToKillTime of zero uses the default.
func NewShutdownHandler(log *logger.Logger, daemon daemon.Daemon, waitToKillTime time.Duration) *ShutdownHandler {

	if waitToKillTime <= 0 {
		waitToKillTime = defaultWaitToKillTime
	}

	gs := &ShutdownHandler{
		log:              log,
		daemon:           daemon,
		waitToKillTime:   waitToKillTime,
		gracefulStop:     make(chan os.Signal, 1),
		nodeSelfShutdown: make(chan string, 1),
	}

	signal.Notify(gs.gracefulStop, syscall.SIGTERM)
	signal.Notify(gs.gracefulStop, syscall.SIGINT)

	return gs
}

// SelfShutdown can be called in order to instruct the node to shutdown cleanly without receiving any interrupt signals.
func (gs *ShutdownHandler) SelfShutdown(msg string) {
	select {
	case gs.nodeSelfShutdown <- msg:
	default:
	}
}

// Run starts the ShutdownHandler go routine.
func (gs *ShutdownHandler) Run() {

	go func() {
		select {
		case <-gs.gracefulStop:
			gs.log.Warnf("Received shutdown request - waiting (max %v) to finish processing ...", gs.waitToKillTime)
		case msg := <-gs.nodeSelfShutdown:
			gs.log.Warnf("Node self-shutdown: %s; waiting (max %v) to finish processing ...", msg, gs.waitToKillTime)
		}

		go func() {
			start := time.Now()
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			for x := range ticker.C {
				sinceStart := x.Sub(start)

				if sinceStart > gs.waitToKillTime {
					gs.log.Fatal("Background processes did not terminate in time! Forcing shutdown ...")
				}

				processList := ""
				runningBackgroundWorkers := gs.daemon.GetRunningBackgroundWorkers()
				if len(runningBackgroundWorkers) >= 1 {
					processList = "(" + strings.Join(runningBackgroundWorkers, ", ") + ") "
				}

				gs.log.Warnf("Received shutdown request - waiting (max %v) to finish processing %s...", (gs.waitToKillTime - sinceStart).Truncate(time.Second), processList)
			}
		}()

		gs.daemon.ShutdownAndWait()
	}()
}
