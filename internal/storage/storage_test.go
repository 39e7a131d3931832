package storage

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func project(title string, created time.Time, pages int) models.Project {
	d := models.Draft{Title: title}
	for i := 0; i < pages; i++ {
		d.Pages = append(d.Pages, models.DraftPage{Title: "p"})
	}
	return models.NewProject(d, created)
}

func TestPutGetDelete(t *testing.T) {
	s := New(time.Hour)
	p := project("Wheel", time.Now(), 2)

	_, err := s.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	s.Put(Session{Project: p, View: models.ViewState{ActivePage: 5}})
	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got.Project)
	assert.Equal(t, 1, got.View.ActivePage, "view is clamped to the last page")
	assert.Equal(t, models.TipInfo, got.View.TipSeverity)

	require.NoError(t, s.Delete(p.ID))
	assert.ErrorIs(t, s.Delete(p.ID), ErrNotFound)
	_, err = s.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := New(0)
	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	older := project("Older", base, 2)
	newer := project("Newer", base.Add(time.Hour), 2)
	s.Put(Session{Project: older})
	s.Put(Session{Project: newer})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Project.Title)
	assert.Equal(t, "Older", list[1].Project.Title)
}

func TestExpiry(t *testing.T) {
	s := New(20 * time.Millisecond)
	p := project("Short lived", time.Now(), 2)
	s.Put(Session{Project: p})

	time.Sleep(50 * time.Millisecond)
	_, err := s.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcquire(t *testing.T) {
	s := New(time.Hour)

	release, err := s.Acquire("a")
	require.NoError(t, err)

	_, err = s.Acquire("a")
	assert.ErrorIs(t, err, ErrBusy)

	other, err := s.Acquire("b")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := s.Acquire("a")
	require.NoError(t, err)
	again()
}

func TestUpdate(t *testing.T) {
	s := New(time.Hour)
	p := project("Wheel", time.Now(), 2)
	s.Put(Session{Project: p})

	got, err := s.Update(p.ID, func(cur Session) (Session, error) {
		cur.Project = cur.Project.AddPage()
		return cur, nil
	})
	require.NoError(t, err)
	assert.Len(t, got.Project.Pages, 3)

	boom := errors.New("boom")
	_, err = s.Update(p.ID, func(cur Session) (Session, error) {
		cur.Project.Title = "changed"
		return cur, boom
	})
	assert.ErrorIs(t, err, boom)
	stored, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wheel", stored.Project.Title)

	_, err = s.Update("missing", func(cur Session) (Session, error) { return cur, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	release, err := s.Acquire(p.ID)
	require.NoError(t, err)
	defer release()
	_, err = s.Update(p.ID, func(cur Session) (Session, error) { return cur, nil })
	assert.ErrorIs(t, err, ErrBusy)
}

func TestReadsDuringUpdateKeepCommittedSession(t *testing.T) {
	s := New(time.Hour)
	p := project("0", time.Now(), 1)
	s.Put(Session{Project: p})

	var stop atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				_, _ = s.Get(p.ID)
			}
		}()
	}

	const updates = 5000
	for i := 0; i < updates; i++ {
		_, err := s.Update(p.ID, func(cur Session) (Session, error) {
			n, err := strconv.Atoi(cur.Project.Title)
			if err != nil {
				return cur, err
			}
			cur.Project.Title = strconv.Itoa(n + 1)
			return cur, nil
		})
		require.NoError(t, err)
	}
	stop.Store(true)
	wg.Wait()

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(updates), got.Project.Title)
}

func TestReadDoesNotRestoreDeletedSession(t *testing.T) {
	s := New(time.Hour)
	p := project("Wheel", time.Now(), 1)
	s.Put(Session{Project: p})

	require.NoError(t, s.Delete(p.ID))
	_, err := s.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.List())
}
