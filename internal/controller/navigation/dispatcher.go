package navigation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
	kb "github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
	"github.com/Freeeeeet/unischedule_bot/internal/service"
	"golang.org/x/sync/errgroup"
)

// Reference справочники для построения меню
type Reference interface {
	Faculties() []*model.Faculty
	Faculty(id int64) (*model.Faculty, bool)
	Grades(facultyID int64) []int
	Groups(facultyID int64, grade int) []*model.Group
	Letters() []string
	Teachers(letter string) []*model.Teacher
	Entity(branch model.Branch, id int64) (model.Subscribable, bool)
}

type Subscriptions interface {
	Current(ctx context.Context) (*model.Subscription, error)
	SubscriptionTo(ctx context.Context, target model.Subscribable) (*model.Subscription, error)
	Subscribe(ctx context.Context, target model.Subscribable) (*model.Subscription, error)
	Unsubscribe(ctx context.Context, subscriptionID string) error
}

type Lessons interface {
	Lessons(ctx context.Context, target model.Subscribable, w schedule.Window) ([]*model.Lesson, error)
}

type Users interface {
	Authenticate(ctx context.Context, tg service.TelegramUser, nonce string) (*model.Account, error)
	Profile(ctx context.Context) (*model.User, error)
}

// Screen результат перехода: новое состояние и что показать пользователю
type Screen struct {
	State    state.UserState
	Data     state.Data
	Text     string
	Keyboard kb.Markup

	// Answer короткий ответ на callback
	Answer string
	// NoOp сообщение не меняется
	NoOp bool
	// Keep сессию не трогать
	Keep bool
}

type Options struct {
	SiteURL  string
	Location *time.Location
}

// Dispatcher выполняет действия пользователя и собирает экраны
type Dispatcher struct {
	ref     Reference
	subs    Subscriptions
	lessons Lessons
	users   Users

	siteURL string
	loc     *time.Location
	now     func() time.Time
}

func NewDispatcher(ref Reference, subs Subscriptions, lessons Lessons, users Users, opts Options) *Dispatcher {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Dispatcher{
		ref:     ref,
		subs:    subs,
		lessons: lessons,
		users:   users,
		siteURL: opts.SiteURL,
		loc:     loc,
		now:     time.Now,
	}
}

// Dispatch выполняет действие в контексте сессии.
// displayed - текст сообщения, к которому привязана нажатая кнопка.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *state.Session, act Action, displayed string) (*Screen, error) {
	switch act.Kind {
	case ActMain:
		return d.Main(ctx)
	case ActBack:
		target, err := BackTarget(sess.State, sess.Data)
		if err != nil {
			return nil, err
		}
		return d.Dispatch(ctx, sess, target, displayed)
	case ActConfirm:
		return d.Confirm(ctx, sess)
	case ActFaculties:
		return d.Faculties(ctx)
	case ActFaculty:
		return d.Grades(ctx, act.ID)
	case ActGrade:
		return d.Groups(ctx, sess.Data, act.Grade)
	case ActLetters:
		return d.Letters(ctx)
	case ActLetter:
		return d.Teachers(ctx, act.Letter)
	case ActEntity:
		return d.Entity(ctx, sess.Data, act.ID)
	case ActSchedule:
		return d.Schedule(ctx, sess, act, displayed)
	case ActSubscribe:
		return d.Subscribe(ctx, sess)
	case ActUnsubscribe:
		return d.Unsubscribe(ctx, sess, act.SubscriptionID)
	case ActNoop:
		return &Screen{NoOp: true, Keep: true}, nil
	}
	return nil, fmt.Errorf("%w: kind %d", ErrInvalidAction, act.Kind)
}

// Main корневое меню: профиль и подписка. Сбрасывает сессию.
func (d *Dispatcher) Main(ctx context.Context) (*Screen, error) {
	var (
		user *model.User
		sub  *model.Subscription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = d.users.Profile(gctx)
		return err
	})
	g.Go(func() (err error) {
		sub, err = d.subs.Current(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("main menu: %w", err)
	}

	return &Screen{
		State:    state.StateIdle,
		Data:     state.Data{},
		Text:     formatting.MainMenu(user, sub),
		Keyboard: d.mainKeyboard(sub),
	}, nil
}

// Start регистрирует пользователя и приветствует его
func (d *Dispatcher) Start(ctx context.Context, tg service.TelegramUser, nonce string) (*Screen, error) {
	acc, err := d.users.Authenticate(ctx, tg, nonce)
	if err != nil {
		return nil, err
	}

	name := tg.FirstName
	if name == "" {
		name = tg.Username
	}
	return &Screen{
		State:    state.StateIdle,
		Data:     state.Data{},
		Text:     formatting.StartMessage(name, acc.Created, acc.NonceStatus),
		Keyboard: HomeKeyboard(),
	}, nil
}

func (d *Dispatcher) Faculties(_ context.Context) (*Screen, error) {
	return &Screen{
		State:    state.StateChoosingFaculty,
		Data:     state.Data{state.KeyBranch: string(model.BranchGroups)},
		Text:     formatting.TextFacultyChoosing,
		Keyboard: facultiesKeyboard(d.ref.Faculties()),
	}, nil
}

func (d *Dispatcher) Grades(_ context.Context, facultyID int64) (*Screen, error) {
	faculty, ok := d.ref.Faculty(facultyID)
	if !ok {
		return nil, fmt.Errorf("%w: faculty %d", ErrUnknownEntity, facultyID)
	}
	return &Screen{
		State: state.StateChoosingGrade,
		Data: state.Data{
			state.KeyBranch:    string(model.BranchGroups),
			state.KeyFacultyID: facultyID,
		},
		Text:     formatting.GradeChoosing(faculty),
		Keyboard: gradesKeyboard(d.ref.Grades(facultyID)),
	}, nil
}

// Groups группы выбранного курса; факультет берётся из сессии
func (d *Dispatcher) Groups(_ context.Context, data state.Data, grade int) (*Screen, error) {
	facultyID, ok := data.Int64(state.KeyFacultyID)
	if !ok {
		return nil, fmt.Errorf("%w: groups without %s", ErrStateExpired, state.KeyFacultyID)
	}
	faculty, ok := d.ref.Faculty(facultyID)
	if !ok {
		return nil, fmt.Errorf("%w: faculty %d", ErrUnknownEntity, facultyID)
	}
	return &Screen{
		State: state.StateChoosingGroup,
		Data: state.Data{
			state.KeyBranch:    string(model.BranchGroups),
			state.KeyFacultyID: facultyID,
			state.KeyGrade:     grade,
		},
		Text:     formatting.GroupChoosing(faculty, grade),
		Keyboard: groupsKeyboard(d.ref.Groups(facultyID, grade)),
	}, nil
}

func (d *Dispatcher) Letters(_ context.Context) (*Screen, error) {
	return &Screen{
		State:    state.StateChoosingLetter,
		Data:     state.Data{state.KeyBranch: string(model.BranchTeachers)},
		Text:     formatting.TextLetterChoosing,
		Keyboard: lettersKeyboard(d.ref.Letters()),
	}, nil
}

func (d *Dispatcher) Teachers(_ context.Context, letter string) (*Screen, error) {
	return &Screen{
		State: state.StateChoosingTeacher,
		Data: state.Data{
			state.KeyBranch: string(model.BranchTeachers),
			state.KeyLetter: letter,
		},
		Text:     formatting.TextTeacherChoosing,
		Keyboard: teachersKeyboard(d.ref.Teachers(letter)),
	}, nil
}

// Entity карточка группы или преподавателя с действиями
func (d *Dispatcher) Entity(ctx context.Context, data state.Data, id int64) (*Screen, error) {
	target, err := d.entity(data, id)
	if err != nil {
		return nil, err
	}
	sub, err := d.subs.SubscriptionTo(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Screen{
		State:    state.StateChoosingAction,
		Data:     data.Merge(state.Data{state.KeyObjID: id}),
		Text:     formatting.SelectedEntity(target, sub != nil),
		Keyboard: d.actionsKeyboard(target, sub),
	}, nil
}

func (d *Dispatcher) entity(data state.Data, id int64) (model.Subscribable, error) {
	branch, ok := data.String(state.KeyBranch)
	if !ok {
		return nil, fmt.Errorf("%w: entity without %s", ErrStateExpired, state.KeyBranch)
	}
	target, ok := d.ref.Entity(model.Branch(branch), id)
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrUnknownEntity, branch, id)
	}
	return target, nil
}

// selected сущность, открытая в текущей сессии
func (d *Dispatcher) selected(data state.Data) (model.Subscribable, error) {
	id, ok := data.Int64(state.KeyObjID)
	if !ok {
		return nil, fmt.Errorf("%w: no %s", ErrStateExpired, state.KeyObjID)
	}
	return d.entity(data, id)
}

// Schedule страница расписания для выбранной сущности или для подписки
func (d *Dispatcher) Schedule(ctx context.Context, sess *state.Session, act Action, displayed string) (*Screen, error) {
	policy, err := schedule.PolicyFor(act.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	if act.Shift < -policy.MaxBackShift || act.Shift > policy.MaxForwardShift {
		return nil, fmt.Errorf("%w: shift %d out of range for %s", ErrInvalidAction, act.Shift, policy.Mode)
	}

	screen := &Screen{}
	var target model.Subscribable
	switch act.Source {
	case SourceContext:
		target, err = d.selected(sess.Data)
		if err != nil {
			return nil, err
		}
		screen.State = state.StateReadingSchedule
		screen.Data = sess.Data.Clone()
	case SourceSubscription:
		sub, err := d.subs.Current(ctx)
		if err != nil {
			return nil, err
		}
		if sub == nil || sub.Target == nil {
			return nil, fmt.Errorf("%w: no subscription", ErrStateExpired)
		}
		target = sub.Target
		screen.Keep = true
	default:
		return nil, fmt.Errorf("%w: source %q", ErrInvalidAction, act.Source)
	}

	today := d.now().In(d.loc)
	w := policy.WindowFor(today, act.Shift)
	lessons, err := d.lessons.Lessons(ctx, target, w)
	if err != nil {
		return nil, err
	}

	text := formatting.Schedule(target, lessons, w)
	if displayed != "" && formatting.PlainText(text) == strings.TrimSpace(displayed) {
		return &Screen{NoOp: true, Keep: true, Answer: formatting.TextRefreshed}, nil
	}

	screen.Text = text
	screen.Keyboard = scheduleKeyboard(act.Source, act.Mode, policy.PageBounds(act.Shift), w.Contains(today))
	return screen, nil
}

// Subscribe подписывает на выбранную сущность.
// Если уже есть подписка на другую, сначала просит подтверждение.
func (d *Dispatcher) Subscribe(ctx context.Context, sess *state.Session) (*Screen, error) {
	target, err := d.selected(sess.Data)
	if err != nil {
		return nil, err
	}
	current, err := d.subs.Current(ctx)
	if err != nil {
		return nil, err
	}

	if current != nil {
		if model.SameEntity(current.Target, target) {
			return d.Entity(ctx, sess.Data, target.EntityID())
		}
		return &Screen{
			State:    state.StateWaitingSubscriptionConfirm,
			Data:     sess.Data.Clone(),
			Text:     formatting.TextSubscriptionWarning,
			Keyboard: confirmKeyboard(),
		}, nil
	}
	return d.createSubscription(ctx, sess.Data)
}

func (d *Dispatcher) createSubscription(ctx context.Context, data state.Data) (*Screen, error) {
	target, err := d.selected(data)
	if err != nil {
		return nil, err
	}
	if _, err := d.subs.Subscribe(ctx, target); err != nil {
		return nil, err
	}

	screen, err := d.Main(ctx)
	if err != nil {
		return nil, err
	}
	screen.Answer = formatting.TextSubscribed
	return screen, nil
}

// Confirm подтверждает замену подписки; вне ожидания ведёт в корень
func (d *Dispatcher) Confirm(ctx context.Context, sess *state.Session) (*Screen, error) {
	if sess.State != state.StateWaitingSubscriptionConfirm {
		return d.Main(ctx)
	}
	return d.createSubscription(ctx, sess.Data)
}

// Unsubscribe отменяет подписку и перерисовывает карточку или корень
func (d *Dispatcher) Unsubscribe(ctx context.Context, sess *state.Session, subscriptionID string) (*Screen, error) {
	if err := d.subs.Unsubscribe(ctx, subscriptionID); err != nil {
		return nil, err
	}

	var (
		screen *Screen
		err    error
	)
	if objID, ok := sess.Data.Int64(state.KeyObjID); ok && sess.State == state.StateChoosingAction {
		screen, err = d.Entity(ctx, sess.Data, objID)
	} else {
		screen, err = d.Main(ctx)
	}
	if err != nil {
		return nil, err
	}
	screen.Answer = formatting.TextUnsubscribed
	return screen, nil
}
