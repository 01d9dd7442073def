package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// GroupSource источник полного списка групп
type GroupSource interface {
	List(ctx context.Context) ([]*model.Group, error)
}

// TeacherSource источник полного списка преподавателей
type TeacherSource interface {
	List(ctx context.Context) ([]*model.Teacher, error)
}

// SnapshotStore хранилище снимков справочников
type SnapshotStore interface {
	Save(ctx context.Context, snap *model.ReferenceSnapshot) error
	Load(ctx context.Context) (*model.ReferenceSnapshot, error)
}

type facultyEntry struct {
	faculty *model.Faculty
	grades  []int
	groups  map[int][]*model.Group
}

// referenceIndex неизменяемый после построения индекс справочников
type referenceIndex struct {
	faculties        []*model.Faculty
	facultyByID      map[int64]*facultyEntry
	groupByID        map[int64]*model.Group
	letters          []string
	teachersByLetter map[string][]*model.Teacher
	teacherByID      map[int64]*model.Teacher
	builtAt          time.Time
}

var emptyIndex = &referenceIndex{}

// ReferenceCache кэш групп и преподавателей для построения меню.
// Индекс заменяется целиком, читатели не берут блокировок.
type ReferenceCache struct {
	groups    GroupSource
	teachers  TeacherSource
	snapshots SnapshotStore
	logger    *zap.Logger

	index atomic.Pointer[referenceIndex]
	sf    singleflight.Group
	now   func() time.Time
}

// NewReferenceCache создаёт пустой кэш. snapshots может быть nil.
func NewReferenceCache(groups GroupSource, teachers TeacherSource, snapshots SnapshotStore, logger *zap.Logger) *ReferenceCache {
	return &ReferenceCache{
		groups:    groups,
		teachers:  teachers,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

func (c *ReferenceCache) current() *referenceIndex {
	if idx := c.index.Load(); idx != nil {
		return idx
	}
	return emptyIndex
}

// Ready кэш хотя бы раз заполнен
func (c *ReferenceCache) Ready() bool {
	return c.index.Load() != nil
}

// Refresh загружает справочники и атомарно заменяет индекс.
// Одновременные вызовы объединяются в один запрос к API.
func (c *ReferenceCache) Refresh(ctx context.Context) error {
	_, err, shared := c.sf.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx)
	})
	if shared {
		c.logger.Debug("Reference refresh coalesced")
	}
	return err
}

func (c *ReferenceCache) refresh(ctx context.Context) error {
	start := time.Now()

	var (
		groups   []*model.Group
		teachers []*model.Teacher
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		groups, err = c.groups.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		teachers, err = c.teachers.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh reference data: %w", err)
	}

	idx := buildIndex(groups, teachers, c.now())
	c.index.Store(idx)

	c.logger.Info("Reference data refreshed",
		zap.Int("faculties", len(idx.faculties)),
		zap.Int("groups", len(idx.groupByID)),
		zap.Int("teachers", len(idx.teacherByID)),
		zap.Duration("took", time.Since(start)))

	if c.snapshots != nil {
		snap := &model.ReferenceSnapshot{Groups: groups, Teachers: teachers, TakenAt: idx.builtAt}
		if err := c.snapshots.Save(ctx, snap); err != nil {
			c.logger.Warn("Failed to save reference snapshot", zap.Error(err))
		}
	}
	return nil
}

// WarmStart заполняет кэш из последнего снимка, если кэш ещё пуст
func (c *ReferenceCache) WarmStart(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}
	snap, err := c.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load reference snapshot: %w", err)
	}
	if snap.Empty() {
		return nil
	}

	idx := buildIndex(snap.Groups, snap.Teachers, snap.TakenAt)
	if c.index.CompareAndSwap(nil, idx) {
		c.logger.Info("Reference cache warmed from snapshot",
			zap.Time("taken_at", snap.TakenAt),
			zap.Int("groups", len(idx.groupByID)),
			zap.Int("teachers", len(idx.teacherByID)))
	}
	return nil
}

// Faculties факультеты, отсортированные по короткому названию
func (c *ReferenceCache) Faculties() []*model.Faculty {
	return c.current().faculties
}

func (c *ReferenceCache) Faculty(id int64) (*model.Faculty, bool) {
	e, ok := c.current().facultyByID[id]
	if !ok {
		return nil, false
	}
	return e.faculty, true
}

// Grades курсы факультета по возрастанию
func (c *ReferenceCache) Grades(facultyID int64) []int {
	e, ok := c.current().facultyByID[facultyID]
	if !ok {
		return nil
	}
	return e.grades
}

// Groups группы факультета на курсе, по названию
func (c *ReferenceCache) Groups(facultyID int64, grade int) []*model.Group {
	e, ok := c.current().facultyByID[facultyID]
	if !ok {
		return nil
	}
	return e.groups[grade]
}

func (c *ReferenceCache) Group(id int64) (*model.Group, bool) {
	g, ok := c.current().groupByID[id]
	return g, ok
}

// Letters первые буквы фамилий преподавателей
func (c *ReferenceCache) Letters() []string {
	return c.current().letters
}

// Teachers преподаватели на букву, по полному имени
func (c *ReferenceCache) Teachers(letter string) []*model.Teacher {
	return c.current().teachersByLetter[letter]
}

func (c *ReferenceCache) Teacher(id int64) (*model.Teacher, bool) {
	t, ok := c.current().teacherByID[id]
	return t, ok
}

// Entity ищет сущность ветки по id
func (c *ReferenceCache) Entity(branch model.Branch, id int64) (model.Subscribable, bool) {
	switch branch {
	case model.BranchGroups:
		if g, ok := c.Group(id); ok {
			return g, true
		}
	case model.BranchTeachers:
		if t, ok := c.Teacher(id); ok {
			return t, true
		}
	}
	return nil, false
}

func buildIndex(groups []*model.Group, teachers []*model.Teacher, builtAt time.Time) *referenceIndex {
	idx := &referenceIndex{
		facultyByID:      make(map[int64]*facultyEntry),
		groupByID:        make(map[int64]*model.Group, len(groups)),
		teachersByLetter: make(map[string][]*model.Teacher),
		teacherByID:      make(map[int64]*model.Teacher, len(teachers)),
		builtAt:          builtAt,
	}

	for _, g := range groups {
		if g == nil {
			continue
		}
		idx.groupByID[g.ID] = g

		e, ok := idx.facultyByID[g.FacultyID]
		if !ok {
			f := g.Faculty
			if f == nil {
				f = &model.Faculty{ID: g.FacultyID}
			}
			e = &facultyEntry{faculty: f, groups: make(map[int][]*model.Group)}
			idx.facultyByID[g.FacultyID] = e
			idx.faculties = append(idx.faculties, f)
		}
		if _, seen := e.groups[g.Grade]; !seen {
			e.grades = append(e.grades, g.Grade)
		}
		e.groups[g.Grade] = append(e.groups[g.Grade], g)
	}

	sort.SliceStable(idx.faculties, func(i, j int) bool {
		return idx.faculties[i].ShortTitle < idx.faculties[j].ShortTitle
	})
	for _, e := range idx.facultyByID {
		sort.Ints(e.grades)
		for _, list := range e.groups {
			sort.SliceStable(list, func(i, j int) bool { return list[i].Title < list[j].Title })
		}
	}

	for _, t := range teachers {
		if t == nil {
			continue
		}
		idx.teacherByID[t.ID] = t
		letter := FirstLetter(t.FullName)
		if letter == "" {
			continue
		}
		if _, seen := idx.teachersByLetter[letter]; !seen {
			idx.letters = append(idx.letters, letter)
		}
		idx.teachersByLetter[letter] = append(idx.teachersByLetter[letter], t)
	}

	sort.Strings(idx.letters)
	for _, list := range idx.teachersByLetter {
		sort.SliceStable(list, func(i, j int) bool { return list[i].FullName < list[j].FullName })
	}

	return idx
}

// FirstLetter первая буква имени в верхнем регистре
func FirstLetter(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
