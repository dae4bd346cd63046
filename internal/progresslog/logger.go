// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"sync"
	"time"

	"github.com/btcspv/btcspv"
	"github.com/decred/slog"
)

// logInterval is the minimum amount of time between progress messages that are
// not forced.
const logInterval = 10 * time.Second

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Logger provides periodic logging of progress towards some action such as
// validating a long chain of headers.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// receivedHeaders accumulates the number of headers between log
	// statements.
	receivedHeaders uint64
}

// New returns a new header progress logger.
func New(progressAction string, logger slog.Logger) *Logger {
	return &Logger{
		lastLogTime:     time.Now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
	}
}

// LogHeaderProgress accumulates the provided number of headers and periodically
// (every 10 seconds) logs an information message to show progress to the user
// along with duration and totals included.  The last header is the most recent
// one processed and must be a serialized 80-byte header.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//
//	{progressAction} {numProcessed} {headers|header} in the last {timePeriod}
//	(hash {lastHeaderHash}, {lastHeaderTimestamp})
func (l *Logger) LogHeaderProgress(numHeaders uint64, lastHeader []byte, forceLog bool) {
	l.Lock()
	defer l.Unlock()

	l.receivedHeaders += numHeaders
	now := time.Now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < logInterval {
		return
	}

	hash, err := btcspv.HeaderHash(lastHeader)
	if err != nil {
		l.subsystemLogger.Warnf("Unable to log progress: %v", err)
		return
	}
	timestamp, _ := btcspv.ExtractTimestamp(lastHeader)

	// Log information about header progress.
	l.subsystemLogger.Infof("%s %d %s in the last %0.2fs (hash %v, %s)",
		l.progressAction, l.receivedHeaders,
		pickNoun(l.receivedHeaders, "header", "headers"), duration.Seconds(),
		hash, time.Unix(int64(timestamp), 0).UTC())

	l.receivedHeaders = 0
	l.lastLogTime = now
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
