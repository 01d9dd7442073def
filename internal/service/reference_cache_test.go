package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGroups struct {
	calls   atomic.Int32
	release chan struct{}
	groups  []*model.Group
	err     error
}

func (f *fakeGroups) List(ctx context.Context) ([]*model.Group, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.groups, f.err
}

type fakeTeachers struct {
	teachers []*model.Teacher
}

func (f *fakeTeachers) List(ctx context.Context) ([]*model.Teacher, error) {
	return f.teachers, nil
}

type memorySnapshots struct {
	mu   sync.Mutex
	snap *model.ReferenceSnapshot
}

func (m *memorySnapshots) Save(_ context.Context, snap *model.ReferenceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

func (m *memorySnapshots) Load(_ context.Context) (*model.ReferenceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func sampleGroups() []*model.Group {
	fit := &model.Faculty{ID: 1, Title: "Факультет ИТ", ShortTitle: "ФИТ"}
	eco := &model.Faculty{ID: 2, Title: "Экономический", ShortTitle: "ЭФ"}
	arch := &model.Faculty{ID: 3, Title: "Архитектурный", ShortTitle: "АФ"}
	return []*model.Group{
		{ID: 10, Title: "ИВТ-31", Grade: 3, FacultyID: 1, Faculty: fit},
		{ID: 11, Title: "ИВТ-11", Grade: 1, FacultyID: 1, Faculty: fit},
		{ID: 12, Title: "ИБ-11", Grade: 1, FacultyID: 1, Faculty: fit},
		{ID: 20, Title: "ЭК-21", Grade: 2, FacultyID: 2, Faculty: eco},
		{ID: 30, Title: "АР-11", Grade: 1, FacultyID: 3, Faculty: arch},
	}
}

func sampleTeachers() []*model.Teacher {
	return []*model.Teacher{
		{ID: 1, FullName: "Петров Пётр Петрович"},
		{ID: 2, FullName: "андреев Андрей"},
		{ID: 3, FullName: "Павлова Анна"},
		{ID: 4, FullName: "Абрамов Борис"},
	}
}

func TestReferenceCacheEmptyBeforeRefresh(t *testing.T) {
	c := NewReferenceCache(&fakeGroups{}, &fakeTeachers{}, nil, zap.NewNop())

	assert.False(t, c.Ready())
	assert.Empty(t, c.Faculties())
	assert.Empty(t, c.Grades(1))
	assert.Empty(t, c.Groups(1, 1))
	assert.Empty(t, c.Letters())
	assert.Empty(t, c.Teachers("А"))
	_, ok := c.Entity(model.BranchGroups, 10)
	assert.False(t, ok)
}

func TestReferenceCacheIndices(t *testing.T) {
	c := NewReferenceCache(&fakeGroups{groups: sampleGroups()}, &fakeTeachers{teachers: sampleTeachers()}, nil, zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))
	require.True(t, c.Ready())

	var shortTitles []string
	for _, f := range c.Faculties() {
		shortTitles = append(shortTitles, f.ShortTitle)
	}
	assert.Equal(t, []string{"АФ", "ФИТ", "ЭФ"}, shortTitles)

	assert.Equal(t, []int{1, 3}, c.Grades(1))

	var titles []string
	for _, g := range c.Groups(1, 1) {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"ИБ-11", "ИВТ-11"}, titles)

	assert.Equal(t, []string{"А", "П"}, c.Letters())

	var names []string
	for _, tch := range c.Teachers("А") {
		names = append(names, tch.FullName)
	}
	assert.Equal(t, []string{"Абрамов Борис", "андреев Андрей"}, names)

	ent, ok := c.Entity(model.BranchTeachers, 3)
	require.True(t, ok)
	assert.Equal(t, "Павлова Анна", ent.DisplayName())

	f, ok := c.Faculty(2)
	require.True(t, ok)
	assert.Equal(t, "Экономический", f.Title)
}

func TestReferenceCacheKeepsOldIndexOnFailure(t *testing.T) {
	groups := &fakeGroups{groups: sampleGroups()}
	c := NewReferenceCache(groups, &fakeTeachers{teachers: sampleTeachers()}, nil, zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	groups.err = errors.New("api down")
	require.Error(t, c.Refresh(context.Background()))

	assert.Len(t, c.Faculties(), 3)
}

func TestReferenceCacheCoalescesRefresh(t *testing.T) {
	groups := &fakeGroups{groups: sampleGroups(), release: make(chan struct{})}
	c := NewReferenceCache(groups, &fakeTeachers{}, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Refresh(context.Background()))
		}()
	}

	require.Eventually(t, func() bool { return groups.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(groups.release)
	wg.Wait()

	assert.Equal(t, int32(1), groups.calls.Load())
	assert.Len(t, c.Faculties(), 3)
}

func TestReferenceCacheSnapshotWarmStart(t *testing.T) {
	snaps := &memorySnapshots{}
	source := NewReferenceCache(&fakeGroups{groups: sampleGroups()}, &fakeTeachers{teachers: sampleTeachers()}, snaps, zap.NewNop())
	require.NoError(t, source.Refresh(context.Background()))
	require.NotNil(t, snaps.snap)

	failing := &fakeGroups{err: errors.New("api down")}
	c := NewReferenceCache(failing, &fakeTeachers{}, snaps, zap.NewNop())
	require.NoError(t, c.WarmStart(context.Background()))

	assert.True(t, c.Ready())
	assert.Equal(t, []string{"А", "П"}, c.Letters())
	assert.Equal(t, []int{1, 3}, c.Grades(1))
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, "Ё", FirstLetter("  ёжиков"))
	assert.Equal(t, "", FirstLetter(""))
}
