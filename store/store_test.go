package store

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock() func() time.Time {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newStoreWith(t *testing.T, texts ...string) *Store {
	t.Helper()
	s := New(WithClock(fixedClock()))
	for _, text := range texts {
		_, err := s.Add(text, date(2024, time.March, 10))
		require.NoError(t, err)
	}
	return s
}

func texts(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestStore_Add(t *testing.T) {
	s := newStoreWith(t)

	task, err := s.Add("  write report  ", date(2024, time.March, 12))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "write report", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, "12/03/2024", task.DisplayDate)

	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestStore_Add_Validation(t *testing.T) {
	s := newStoreWith(t, "existing")

	_, err := s.Add("", date(2024, time.March, 12))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Add("   ", date(2024, time.March, 12))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Add("no date", time.Time{})
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Equal(t, 1, s.Len())
}

func TestStore_Add_PreservesInsertionOrder(t *testing.T) {
	s := New()
	_, _ = s.Add("late", date(2024, time.December, 1))
	_, _ = s.Add("early", date(2024, time.January, 1))
	_, _ = s.Add("middle", date(2024, time.June, 1))

	assert.Equal(t, []string{"late", "early", "middle"}, texts(s.Tasks()))
}

func TestStore_Toggle_Involution(t *testing.T) {
	s := newStoreWith(t, "a", "b")

	first, err := s.Toggle(1)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := s.Toggle(1)
	require.NoError(t, err)
	assert.False(t, second.Completed)

	a, _ := s.Get(0)
	assert.False(t, a.Completed)
}

func TestStore_Toggle_OutOfRange(t *testing.T) {
	s := newStoreWith(t, "a")

	for _, i := range []int{-1, 1, 5} {
		_, err := s.Toggle(i)
		require.Error(t, err)

		var ierr *model.IndexError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, i, ierr.Index)
		assert.Equal(t, 1, ierr.Len)
	}
}

func TestStore_Edit(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")
	before, _ := s.Get(1)
	_, _ = s.Toggle(1)

	task, err := s.Edit(1, " B2 ", date(2024, time.May, 1))
	require.NoError(t, err)

	assert.Equal(t, "B2", task.Text)
	assert.Equal(t, date(2024, time.May, 1), task.DueDate)
	assert.Equal(t, "01/05/2024", task.DisplayDate)
	assert.True(t, task.Completed)
	assert.Equal(t, before.ID, task.ID)
	assert.Equal(t, []string{"a", "B2", "c"}, texts(s.Tasks()))
}

func TestStore_Edit_EmptyTextLeavesTaskUnchanged(t *testing.T) {
	s := newStoreWith(t, "a")
	before, _ := s.Get(0)

	due, err := model.ParseDueDate("2024-05-01")
	require.NoError(t, err)

	_, err = s.Edit(0, "", due)
	assert.ErrorIs(t, err, model.ErrValidation)

	after, _ := s.Get(0)
	assert.Equal(t, before, after)
}

func TestStore_Edit_Errors(t *testing.T) {
	s := newStoreWith(t, "a")

	_, err := s.Edit(0, "a", time.Time{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Edit(3, "a", date(2024, time.May, 1))
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

func TestStore_Delete(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c", "d")
	original := s.Tasks()

	removed, err := s.Delete(1)
	require.NoError(t, err)

	assert.Equal(t, original[1], removed)
	assert.Equal(t, 3, s.Len())

	after := s.Tasks()
	assert.Equal(t, original[0], after[0])
	assert.Equal(t, original[2], after[1])
	assert.Equal(t, original[3], after[2])
}

func TestStore_Delete_OutOfRange(t *testing.T) {
	s := newStoreWith(t, "a")

	_, err := s.Delete(1)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	assert.Equal(t, 1, s.Len())
}

func TestStore_DeleteAll(t *testing.T) {
	s := newStoreWith(t, "a", "b")

	assert.Equal(t, 2, s.DeleteAll())
	assert.Equal(t, 0, s.Len())

	assert.Equal(t, 0, s.DeleteAll())
	assert.Equal(t, 0, s.Len())
}

func TestStore_ByID(t *testing.T) {
	s := newStoreWith(t, "a", "b", "c")
	c, _ := s.Get(2)

	_, err := s.Delete(0)
	require.NoError(t, err)

	index, err := s.IndexOf(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	toggled, err := s.ToggleByID(c.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	edited, err := s.EditByID(c.ID, "c2", date(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, "c2", edited.Text)
	assert.True(t, edited.Completed)

	removed, err := s.DeleteByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, removed.ID)
	assert.Equal(t, []string{"b"}, texts(s.Tasks()))
}

func TestStore_ByID_NotFound(t *testing.T) {
	s := newStoreWith(t, "a")

	_, err := s.IndexOf("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.ToggleByID("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.DeleteByID("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.EditByID("missing", "x", date(2024, time.June, 1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_TasksIsACopy(t *testing.T) {
	s := newStoreWith(t, "a")

	tasks := s.Tasks()
	tasks[0].Text = "mutated"

	got, _ := s.Get(0)
	assert.Equal(t, "a", got.Text)
}

func TestStore_Listener(t *testing.T) {
	var changes []model.Change
	s := New(WithClock(fixedClock()), WithListener(ListenerFunc(func(c model.Change) {
		changes = append(changes, c)
	})))

	task, _ := s.Add("a", date(2024, time.March, 10))
	_, _ = s.Add("b", date(2024, time.March, 11))
	_, _ = s.Toggle(1)
	_, _ = s.Edit(0, "a2", date(2024, time.March, 12))
	_, _ = s.Delete(0)
	_, _ = s.Toggle(7) // rejected, no event
	s.DeleteAll()
	s.DeleteAll() // already empty, no event

	actions := make([]model.Action, len(changes))
	for i, c := range changes {
		actions[i] = c.Action
	}
	assert.Equal(t, []model.Action{
		model.ActionAdd,
		model.ActionAdd,
		model.ActionToggle,
		model.ActionEdit,
		model.ActionDelete,
		model.ActionDeleteAll,
	}, actions)

	assert.Equal(t, task.ID, changes[0].Task.ID)
	assert.Equal(t, 1, changes[1].Index)
	assert.Equal(t, "a2", changes[4].Task.Text)
	assert.Equal(t, 1, changes[5].Index)
}

func TestStore_ListenerOrderFollowsMutations(t *testing.T) {
	var (
		mu      sync.Mutex
		actions []model.Action
	)
	added := make(chan model.Task)
	release := make(chan struct{})

	s := New(WithListener(ListenerFunc(func(c model.Change) {
		if c.Action == model.ActionAdd {
			added <- c.Task
			<-release
		}
		mu.Lock()
		actions = append(actions, c.Action)
		mu.Unlock()
	})))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.Add("a", date(2024, time.March, 10))
		assert.NoError(t, err)
	}()

	task := <-added
	go func() {
		defer wg.Done()
		_, err := s.ToggleByID(task.ID)
		assert.NoError(t, err)
	}()

	// toggle has time to overtake the blocked add notification
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []model.Action{model.ActionAdd, model.ActionToggle}, actions)
	got, err := s.Get(0)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestStore_WithDisplayLayout(t *testing.T) {
	s := New(WithDisplayLayout("2006/01/02"))
	task, err := s.Add("a", date(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, "2024/03/05", task.DisplayDate)
}

func TestStore_ConcurrentAdd(t *testing.T) {
	s := New()

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.Add("x", date(2024, time.March, 10))
		}()
	}

	wg.Wait()
	assert.Equal(t, n, s.Len())
}

func TestStore_LoadSeed(t *testing.T) {
	s := New()

	seed := `
- text: Buy milk
  due: 2024-03-10
- text: File taxes
  due: "2024-04-15"
  completed: true
`
	n, err := s.LoadSeed(strings.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, date(2024, time.March, 10), tasks[0].DueDate)
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, "File taxes", tasks[1].Text)
	assert.True(t, tasks[1].Completed)
}

func TestStore_LoadSeed_InvalidEntryAddsNothing(t *testing.T) {
	s := New()

	seed := `
- text: ok
  due: "2024-03-10"
- text: ""
  due: "2024-03-11"
`
	_, err := s.LoadSeed(strings.NewReader(seed))
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadSeed_Empty(t *testing.T) {
	s := New()

	n, err := s.LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
