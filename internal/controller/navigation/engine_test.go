package navigation

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
	kb "github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
	"github.com/Freeeeeet/unischedule_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticGroups []*model.Group

func (s staticGroups) List(context.Context) ([]*model.Group, error) { return s, nil }

type staticTeachers []*model.Teacher

func (s staticTeachers) List(context.Context) ([]*model.Teacher, error) { return s, nil }

type fakeSubs struct {
	mu      sync.Mutex
	subs    []*model.Subscription
	created int
	seq     int
}

func (f *fakeSubs) Current(context.Context) (*model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return nil, nil
	}
	return f.subs[0], nil
}

func (f *fakeSubs) SubscriptionTo(_ context.Context, target model.Subscribable) (*model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if model.SameEntity(s.Target, target) {
			return s, nil
		}
	}
	return nil, nil
}

// Subscribe заменяет подписку, как это делает API
func (f *fakeSubs) Subscribe(_ context.Context, target model.Subscribable) (*model.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.created++
	sub := &model.Subscription{ID: "s" + strconv.Itoa(f.seq), UserID: "u1", Target: target}
	f.subs = []*model.Subscription{sub}
	return sub, nil
}

func (f *fakeSubs) Unsubscribe(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return errors.New("subscription not found")
}

type fakeLessons struct {
	mu      sync.Mutex
	calls   int
	lessons []*model.Lesson
	err     error
}

func (f *fakeLessons) Lessons(context.Context, model.Subscribable, schedule.Window) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.lessons, f.err
}

type fakeUsers struct {
	user    *model.User
	account *model.Account
}

func (f *fakeUsers) Authenticate(context.Context, service.TelegramUser, string) (*model.Account, error) {
	return f.account, nil
}

func (f *fakeUsers) Profile(context.Context) (*model.User, error) {
	return f.user, nil
}

var (
	testKey = state.Key{ChatID: 1, UserID: 42}
	today   = time.Date(2024, time.June, 12, 9, 30, 0, 0, time.UTC)
)

type fixture struct {
	engine  *Engine
	store   state.Store
	subs    *fakeSubs
	lessons *fakeLessons
	users   *fakeUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fit := &model.Faculty{ID: 1, Title: "Факультет ИТ", ShortTitle: "ФИТ"}
	groups := staticGroups{
		{ID: 10, Title: "ИВТ-11", Grade: 1, FacultyID: 1, Faculty: fit, Link: "/g/10"},
		{ID: 11, Title: "ИВТ-21", Grade: 2, FacultyID: 1, Faculty: fit},
	}
	teachers := staticTeachers{
		{ID: 5, FullName: "Иванов Иван Иванович", ShortName: "Иванов И.И."},
	}
	ref := service.NewReferenceCache(groups, teachers, nil, zap.NewNop())
	require.NoError(t, ref.Refresh(context.Background()))

	f := &fixture{
		store: state.NewMemoryStore(time.Hour, time.Minute),
		subs:  &fakeSubs{},
		lessons: &fakeLessons{lessons: []*model.Lesson{
			{ID: 1, Number: 1, Date: "2024-06-12", StartTime: "08:30:00", Subject: "Физика", Classroom: "101"},
		}},
		users: &fakeUsers{
			user:    &model.User{ID: "u1", FirstName: "Анна", LastName: "Петрова", Username: "anna"},
			account: &model.Account{ID: 1, UserID: "u1", Created: true},
		},
	}

	d := NewDispatcher(ref, f.subs, f.lessons, f.users, Options{SiteURL: "https://uni.example", Location: time.UTC})
	d.now = func() time.Time { return today }
	f.engine = NewEngine(f.store, d, zap.NewNop())
	return f
}

func (f *fixture) click(t *testing.T, data string) Response {
	t.Helper()
	return f.engine.Handle(context.Background(), Event{Kind: EventCallback, ChatID: testKey.ChatID, UserID: testKey.UserID, Data: data})
}

func (f *fixture) session(t *testing.T) *state.Session {
	t.Helper()
	sess, err := f.store.Get(context.Background(), testKey)
	require.NoError(t, err)
	return sess
}

func (f *fixture) setSession(t *testing.T, st state.UserState, data state.Data) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), testKey, &state.Session{State: st, Data: data}))
}

func groupCard() state.Data {
	return state.Data{state.KeyBranch: "groups", state.KeyFacultyID: int64(1), state.KeyGrade: 1, state.KeyObjID: int64(10)}
}

func TestBackReproducesForwardScreen(t *testing.T) {
	f := newFixture(t)

	f.click(t, "faculties")
	assert.Equal(t, state.StateChoosingFaculty, f.session(t).State)

	grades := f.click(t, "f:1")
	assert.Equal(t, "Факультет ИТ\n\nВыберите курс:", grades.Text)
	assert.Equal(t, state.StateChoosingGrade, f.session(t).State)

	groups := f.click(t, "grade:1")
	assert.Equal(t, "Факультет ИТ\n1 курс\n\nВыберите группу:", groups.Text)
	assert.Equal(t, state.StateChoosingGroup, f.session(t).State)

	back := f.click(t, "back")
	assert.Equal(t, grades, back)
	assert.Equal(t, state.StateChoosingGrade, f.session(t).State)

	f.click(t, "grade:1")
	card := f.click(t, "e:10")
	assert.Equal(t, "Группа:\n<b>ИВТ-11</b>", card.Text)
	_, ok := card.Keyboard.Find("🔗 Страница расписания")
	assert.True(t, ok)

	assert.Equal(t, groups, f.click(t, "back"))
}

func TestTeacherBranchBack(t *testing.T) {
	f := newFixture(t)

	letters := f.click(t, "alphabet")
	assert.Equal(t, formatting.TextLetterChoosing, letters.Text)

	teachers := f.click(t, "a:И")
	btn, ok := teachers.Keyboard.Find("Иванов И.И.")
	require.True(t, ok)
	assert.Equal(t, "e:5", btn.Data)

	card := f.click(t, "e:5")
	assert.Equal(t, "Преподаватель:\n<b>Иванов Иван Иванович</b>", card.Text)

	assert.Equal(t, teachers, f.click(t, "back"))
	assert.Equal(t, letters, f.click(t, "back"))

	main := f.click(t, "back")
	assert.Contains(t, main.Text, "Анна Петрова")
	assert.Nil(t, f.session(t))
}

func TestBackWithoutObjectExpires(t *testing.T) {
	f := newFixture(t)
	f.setSession(t, state.StateReadingSchedule, state.Data{state.KeyBranch: "groups"})

	resp := f.click(t, "back")
	assert.True(t, resp.Alert)
	assert.Equal(t, formatting.TextStateExpired, resp.Answer)
	assert.Contains(t, resp.Text, "☆ не выбрано")
	assert.Nil(t, f.session(t))
}

func TestRepeatedScheduleIsNoop(t *testing.T) {
	f := newFixture(t)
	f.setSession(t, state.StateChoosingAction, groupCard())

	page := f.click(t, "les:c:1day:0")
	require.False(t, page.NoOp)
	assert.Contains(t, page.Text, "<b>Физика</b>")
	_, ok := page.Keyboard.Find(kb.TextRefresh)
	assert.True(t, ok)
	assert.Equal(t, state.StateReadingSchedule, f.session(t).State)

	again := f.engine.Handle(context.Background(), Event{
		Kind:          EventCallback,
		ChatID:        testKey.ChatID,
		UserID:        testKey.UserID,
		Data:          "les:c:1day:0",
		DisplayedText: formatting.PlainText(page.Text),
	})
	assert.True(t, again.NoOp)
	assert.Equal(t, formatting.TextRefreshed, again.Answer)
	assert.Equal(t, 2, f.lessons.calls)
	assert.Equal(t, state.StateReadingSchedule, f.session(t).State)

	next := f.click(t, "les:c:1day:1")
	_, ok = next.Keyboard.Find(kb.TextToday)
	assert.True(t, ok)

	card := f.click(t, "back")
	assert.Equal(t, "Группа:\n<b>ИВТ-11</b>", card.Text)
	assert.Equal(t, state.StateChoosingAction, f.session(t).State)
}

func TestSchedulePaginationBounds(t *testing.T) {
	f := newFixture(t)
	f.setSession(t, state.StateChoosingAction, groupCard())

	edge := f.click(t, "les:c:1day:-180")
	_, hasPrev := edge.Keyboard.Find(kb.TextPrev)
	assert.False(t, hasPrev)
	_, hasNext := edge.Keyboard.Find(kb.TextNext)
	assert.True(t, hasNext)

	beyond := f.click(t, "les:c:week:2")
	assert.Equal(t, formatting.TextErrorDefault, beyond.Text)
	assert.Nil(t, f.session(t))
}

func TestSubscribeWithExistingAsksConfirmation(t *testing.T) {
	f := newFixture(t)
	f.subs.subs = []*model.Subscription{{ID: "old", Target: &model.Teacher{ID: 5, FullName: "Иванов Иван Иванович"}}}
	f.setSession(t, state.StateChoosingAction, groupCard())

	warn := f.click(t, "sub:subscribe")
	assert.Equal(t, formatting.TextSubscriptionWarning, warn.Text)
	assert.Equal(t, confirmKeyboard(), warn.Keyboard)
	assert.Equal(t, state.StateWaitingSubscriptionConfirm, f.session(t).State)
	assert.Zero(t, f.subs.created)

	card := f.click(t, "back")
	assert.Equal(t, "Группа:\n<b>ИВТ-11</b>", card.Text)

	f.click(t, "sub:subscribe")
	done := f.click(t, "confirm")
	assert.Equal(t, formatting.TextSubscribed, done.Answer)
	assert.Contains(t, done.Text, "⭐️ <b>ИВТ-11</b>")
	assert.Equal(t, 1, f.subs.created)
	assert.Nil(t, f.session(t))

	btn, ok := done.Keyboard.Find("🗓 Завтра")
	require.True(t, ok)
	assert.Equal(t, "les:s:1day:1", btn.Data)
}

func TestSubscribeWithoutExisting(t *testing.T) {
	f := newFixture(t)
	f.setSession(t, state.StateChoosingAction, groupCard())

	resp := f.click(t, "sub:subscribe")
	assert.Equal(t, formatting.TextSubscribed, resp.Answer)
	assert.Equal(t, 1, f.subs.created)
}

func TestConfirmOutsideWaitingGoesHome(t *testing.T) {
	f := newFixture(t)
	f.setSession(t, state.StateChoosingAction, groupCard())

	resp := f.click(t, "confirm")
	assert.Contains(t, resp.Text, "Анна Петрова")
	assert.Zero(t, f.subs.created)
}

func TestUnsubscribeFromCard(t *testing.T) {
	f := newFixture(t)
	group := &model.Group{ID: 10, Title: "ИВТ-11", FacultyID: 1}
	f.subs.subs = []*model.Subscription{{ID: "s9", Target: group}}
	f.setSession(t, state.StateChoosingAction, groupCard())

	card := f.click(t, "e:10")
	assert.Equal(t, "Группа:\n<b>ИВТ-11</b>\n\n✅ Вы подписаны", card.Text)
	btn, ok := card.Keyboard.Find("✖️ Отписаться")
	require.True(t, ok)

	resp := f.click(t, btn.Data)
	assert.Equal(t, formatting.TextUnsubscribed, resp.Answer)
	assert.Equal(t, "Группа:\n<b>ИВТ-11</b>", resp.Text)
	assert.Equal(t, state.StateChoosingAction, f.session(t).State)
}

func TestSubscriptionScheduleWithoutSubscriptionExpires(t *testing.T) {
	f := newFixture(t)

	resp := f.click(t, "les:s:week:0")
	assert.True(t, resp.Alert)
	assert.Equal(t, formatting.TextStateExpired, resp.Answer)
}

func TestSubscriptionScheduleKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.subs.subs = []*model.Subscription{{ID: "s1", Target: &model.Group{ID: 10, Title: "ИВТ-11"}}}
	f.setSession(t, state.StateChoosingLetter, state.Data{state.KeyBranch: "teachers"})

	resp := f.click(t, "les:s:1day:0")
	assert.Contains(t, resp.Text, "ИВТ-11")
	assert.Equal(t, kb.Markup{
		{kb.Btn(kb.TextPrev, "les:s:1day:-1"), kb.Btn(kb.TextRefresh, "les:s:1day:0"), kb.Btn(kb.TextNext, "les:s:1day:1")},
		{kb.HomeButton("main")},
	}, resp.Keyboard)
	assert.Equal(t, state.StateChoosingLetter, f.session(t).State)
}

func TestRemoteErrorShowsGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.lessons.err = errors.New("api down")
	f.setSession(t, state.StateChoosingAction, groupCard())

	resp := f.click(t, "les:c:week:0")
	assert.Equal(t, formatting.TextErrorDefault, resp.Text)
	assert.Equal(t, HomeKeyboard(), resp.Keyboard)
	assert.Nil(t, f.session(t))
}

func TestStartGreetsNewUser(t *testing.T) {
	f := newFixture(t)

	resp := f.engine.Handle(context.Background(), Event{
		Kind:   EventStart,
		ChatID: testKey.ChatID,
		UserID: testKey.UserID,
		From:   service.TelegramUser{ID: 42, FirstName: "Анна"},
	})
	assert.Equal(t, "Добро пожаловать, Анна!👋\nРегистрация выполнена успешно.", resp.Text)
	assert.Equal(t, HomeKeyboard(), resp.Keyboard)
}

func TestEventsOfOneUserAreSerialized(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.click(t, "f:1")
		}()
	}
	wg.Wait()

	sess := f.session(t)
	require.NotNil(t, sess)
	assert.Equal(t, state.StateChoosingGrade, sess.State)
	assert.Empty(t, f.engine.locks.locks)
}
