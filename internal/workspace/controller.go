// Package workspace owns the per-session PubMed ID working sets and keeps the page's
// table and notifications in step with them.
package workspace

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/geocurator/internal/pmid"
	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/pkg/logger"
	"github.com/charlesng35/geocurator/pkg/metrics"
)

// ErrFileTooLarge is returned when an uploaded file exceeds the configured limit.
var ErrFileTooLarge = errors.New("workspace: file exceeds upload limit")

// Source labels where a batch came from.
type Source string

const (
	SourceText Source = "text"
	SourceFile Source = "file"
)

// Change describes how the page table must be updated after an operation.
// RemovedIndex is the row of the removed id, or -1.
type Change struct {
	Added        []int64 `json:"added"`
	Removed      int64   `json:"removed,omitempty"`
	RemovedIndex int     `json:"removed_index"`
	Cleared      bool    `json:"cleared,omitempty"`
	IDs          []int64 `json:"ids"`
}

// Controller holds one session's working set. The mutex only serialises updates;
// two uploads in flight apply in whichever order their reads complete.
type Controller struct {
	id        string
	publisher realtime.Publisher
	now       func() time.Time
	log       *zap.Logger

	mu       sync.Mutex
	set      pmid.WorkingSet
	lastSeen time.Time
}

func newController(id string, publisher realtime.Publisher, now func() time.Time) *Controller {
	if publisher == nil {
		publisher = realtime.Discard{}
	}
	if now == nil {
		now = time.Now
	}
	return &Controller{
		id:        id,
		publisher: publisher,
		now:       now,
		log:       logger.WithModule("workspace").With(zap.String("session", id)),
		lastSeen:  now(),
	}
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// Snapshot returns the current working set.
func (c *Controller) Snapshot() pmid.WorkingSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// AddText parses comma separated ids typed by the user and adds the new ones.
func (c *Controller) AddText(text string) (Change, error) {
	ids, err := pmid.Parse(text, pmid.TextDelimiter)
	if err != nil {
		c.reject(SourceText, err)
		return Change{}, err
	}
	return c.apply(SourceText, ids), nil
}

// AddFile reads an uploaded file of newline separated ids and adds the new ones.
// Reading happens before the set is locked, so edits may land while it is pending.
func (c *Controller) AddFile(ctx context.Context, filename string, r io.Reader, limit int64) (Change, error) {
	text, err := readBatch(ctx, r, limit)
	if err != nil {
		return Change{}, err
	}

	ids, err := pmid.Parse(text, pmid.FileDelimiter)
	if err != nil {
		c.reject(SourceFile, err)
		return Change{}, err
	}

	change := c.apply(SourceFile, ids)
	c.toast(realtime.Toast{
		Level: realtime.ToastSuccess,
		Short: importSuccessShort,
		Full:  ImportSuccessMessage(len(change.Added), filename),
	})
	return change, nil
}

// Remove drops one id. Unknown ids leave the set unchanged.
func (c *Controller) Remove(id int64) Change {
	c.mu.Lock()
	index := c.set.IndexOf(id)
	c.set = c.set.RemoveOne(id)
	c.lastSeen = c.now()
	change := Change{RemovedIndex: index, IDs: c.set.IDs()}
	c.mu.Unlock()

	if index >= 0 {
		change.Removed = id
		c.publisher.Publish(c.id, realtime.Message{
			Event: realtime.EventIDRemoved,
			Data:  change,
		})
	}
	return change
}

// Clear empties the set.
func (c *Controller) Clear() Change {
	c.mu.Lock()
	c.set = c.set.Clear()
	c.lastSeen = c.now()
	c.mu.Unlock()

	change := Change{RemovedIndex: -1, Cleared: true, IDs: []int64{}}
	c.publisher.Publish(c.id, realtime.Message{Event: realtime.EventIDsCleared, Data: change})
	return change
}

// Encode returns the hidden form field value. An empty set raises the submit toast
// and returns pmid.ErrEmptyInput.
func (c *Controller) Encode() (string, error) {
	encoded, err := pmid.Encode(c.Snapshot())
	if err != nil {
		metrics.Submissions.WithLabelValues("empty").Inc()
		c.toast(realtime.Toast{Level: realtime.ToastError, Short: SubmitEmptyShort, Full: SubmitEmptyFull})
		return "", err
	}
	return encoded, nil
}

func (c *Controller) apply(source Source, ids []int64) Change {
	c.mu.Lock()
	next, added := c.set.AddBatch(ids)
	c.set = next
	c.lastSeen = c.now()
	change := Change{Added: added, RemovedIndex: -1, IDs: next.IDs()}
	c.mu.Unlock()

	metrics.IDsAdded.WithLabelValues(string(source)).Add(float64(len(added)))
	c.log.Debug("batch applied",
		zap.String("source", string(source)),
		zap.Int("parsed", len(ids)),
		zap.Int("added", len(added)),
	)
	if len(added) > 0 {
		c.publisher.Publish(c.id, realtime.Message{Event: realtime.EventIDsAdded, Data: change})
	}
	return change
}

func (c *Controller) reject(source Source, err error) {
	reason := "unknown"
	if pe, ok := pmid.AsParseError(err); ok {
		reason = pe.Kind.String()
	}
	metrics.BatchesRejected.WithLabelValues(string(source), reason).Inc()
	c.log.Debug("batch rejected", zap.String("source", string(source)), zap.Error(err))
}

func (c *Controller) toast(t realtime.Toast) {
	c.publisher.Publish(c.id, realtime.Message{Event: realtime.EventToast, Data: t})
}

func (c *Controller) touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

func readBatch(ctx context.Context, r io.Reader, limit int64) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 1 << 20
	}
	data, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: r}, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", ErrFileTooLarge
	}
	return string(data), nil
}
