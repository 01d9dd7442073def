package navigation

import (
	"strings"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/formatting"
	kb "github.com/Freeeeeet/unischedule_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
)

const (
	textGroups      = "🎓Группы"
	textTeachers    = "👨‍🏫👩‍🏫Преподаватели"
	textSite        = "🌍Сайт"
	textPage        = "🔗 Страница расписания"
	textToday       = "🗓 Сегодня"
	textTomorrow    = "🗓 Завтра"
	textThreeDays   = "🗓 На 3 дня"
	textWeek        = "🗓 Неделя"
	textSubscribe   = "⭐️ Подписаться"
	textUnsubscribe = "✖️ Отписаться"
)

func homeRow() []kb.Button {
	return []kb.Button{kb.HomeButton(dataMain)}
}

func backHomeRow() []kb.Button {
	return []kb.Button{kb.BackButton(dataBack), kb.HomeButton(dataMain)}
}

// HomeKeyboard одна кнопка "На главную"
func HomeKeyboard() kb.Markup {
	return kb.NewBuilder().Row(homeRow()...).Build()
}

// pageURL абсолютная ссылка на страницу расписания на сайте
func (d *Dispatcher) pageURL(link string) string {
	switch {
	case link == "":
		return ""
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	case d.siteURL == "":
		return ""
	}
	return strings.TrimRight(d.siteURL, "/") + "/" + strings.TrimLeft(link, "/")
}

// scheduleMenu четыре кнопки быстрых режимов расписания
func scheduleMenu(b *kb.Builder, src Source) {
	b.Row(
		kb.Btn(textToday, ScheduleData(src, schedule.ModeOneDay, 0)),
		kb.Btn(textTomorrow, ScheduleData(src, schedule.ModeOneDay, 1)),
	)
	b.Row(
		kb.Btn(textThreeDays, ScheduleData(src, schedule.ModeThreeDays, 0)),
		kb.Btn(textWeek, ScheduleData(src, schedule.ModeWeek, 0)),
	)
}

func branchRow() []kb.Button {
	return []kb.Button{
		kb.Btn(textGroups, dataFaculties),
		kb.Btn(textTeachers, dataLetters),
	}
}

func (d *Dispatcher) mainKeyboard(sub *model.Subscription) kb.Markup {
	b := kb.NewBuilder()
	if sub == nil || sub.Target == nil {
		b.Row(branchRow()...)
		if d.siteURL != "" {
			b.Row(kb.URLButton(textSite, d.siteURL))
		}
		return b.Build()
	}

	scheduleMenu(b, SourceSubscription)
	b.Row(kb.Btn(textUnsubscribe, Action{Kind: ActUnsubscribe, SubscriptionID: sub.ID}.Data()))
	b.Row(branchRow()...)
	if url := d.pageURL(sub.Target.ExternalLink()); url != "" {
		b.Row(kb.URLButton(textPage, url))
	} else if d.siteURL != "" {
		b.Row(kb.URLButton(textSite, d.siteURL))
	}
	return b.Build()
}

func facultiesKeyboard(faculties []*model.Faculty) kb.Markup {
	b := kb.NewBuilder()
	for _, f := range faculties {
		b.Add(kb.Btn(f.ButtonName(), Action{Kind: ActFaculty, ID: f.ID}.Data()))
	}
	return b.Adjust(3).Row(homeRow()...).Build()
}

func gradesKeyboard(grades []int) kb.Markup {
	b := kb.NewBuilder()
	for _, g := range grades {
		b.Add(kb.Btn(formatting.DigitsToEmoji(g), Action{Kind: ActGrade, Grade: g}.Data()))
	}
	return b.Adjust().Row(backHomeRow()...).Build()
}

func groupsKeyboard(groups []*model.Group) kb.Markup {
	b := kb.NewBuilder()
	for _, g := range groups {
		b.Add(kb.Btn(g.ButtonName(), Action{Kind: ActEntity, ID: g.ID}.Data()))
	}
	return b.Adjust(3).Row(backHomeRow()...).Build()
}

func lettersKeyboard(letters []string) kb.Markup {
	b := kb.NewBuilder()
	for _, l := range letters {
		b.Add(kb.Btn(l, Action{Kind: ActLetter, Letter: l}.Data()))
	}
	return b.Adjust(5).Row(homeRow()...).Build()
}

// teachersKeyboard ширина ряда растёт с длиной списка
func teachersKeyboard(teachers []*model.Teacher) kb.Markup {
	b := kb.NewBuilder()
	for _, t := range teachers {
		b.Add(kb.Btn(t.ButtonName(), Action{Kind: ActEntity, ID: t.ID}.Data()))
	}
	return b.Adjust(len(teachers)/10 + 1).Row(backHomeRow()...).Build()
}

func (d *Dispatcher) actionsKeyboard(target model.Subscribable, sub *model.Subscription) kb.Markup {
	b := kb.NewBuilder()
	scheduleMenu(b, SourceContext)

	if sub != nil {
		b.Add(kb.Btn(textUnsubscribe, Action{Kind: ActUnsubscribe, SubscriptionID: sub.ID}.Data()))
	} else {
		b.Add(kb.Btn(textSubscribe, dataSubscribe))
	}
	if url := d.pageURL(target.ExternalLink()); url != "" {
		b.Add(kb.URLButton(textPage, url))
	}
	return b.Adjust(1).Row(backHomeRow()...).Build()
}

func scheduleKeyboard(src Source, mode schedule.Mode, pb schedule.PageBounds, showsToday bool) kb.Markup {
	b := kb.NewBuilder()
	b.Row(kb.ShiftPagination(pb, showsToday, func(shift int) string {
		return ScheduleData(src, mode, shift)
	})...)
	if src == SourceContext {
		b.Row(backHomeRow()...)
	} else {
		b.Row(homeRow()...)
	}
	return b.Build()
}

func confirmKeyboard() kb.Markup {
	return kb.NewBuilder().Row(kb.BackButton(dataBack), kb.ConfirmButton(dataConfirm)).Build()
}
