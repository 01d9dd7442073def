package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAPI(t *testing.T, h http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestGroupListResolvesFaculty(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "faculty", r.URL.Query().Get("include"))
		io.WriteString(w, `{
			"data": [
				{"type": "groups", "id": "10", "attributes": {"title": "ИВТ-21", "grade": 2, "link": "/g/10"},
				 "relationships": {"faculty": {"data": {"type": "faculties", "id": "3"}}}}
			],
			"included": [{"type": "faculties", "id": "3", "attributes": {"title": "Факультет ИТ", "shortTitle": "ФИТ"}}]
		}`)
	})

	groups, err := NewGroupRepository(api).List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, int64(10), g.ID)
	assert.Equal(t, 2, g.Grade)
	assert.Equal(t, int64(3), g.FacultyID)
	require.NotNil(t, g.Faculty)
	assert.Equal(t, "ФИТ", g.Faculty.ShortTitle)
}

func TestGroupWithoutFacultyIsSchemaError(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": [{"type": "groups", "id": "10", "attributes": {"title": "ИВТ-21", "grade": 2}}]}`)
	})

	_, err := NewGroupRepository(api).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrSchema)
	assert.True(t, apiclient.IsRemote(err))
}

func TestTeacherWithoutNameIsSchemaError(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": [{"type": "teachers", "id": "1", "attributes": {"shortName": "Иванов И.И."}}]}`)
	})

	_, err := NewTeacherRepository(api).List(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrSchema)
}

func TestLessonFilters(t *testing.T) {
	var gotQuery map[string][]string
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{
			"data": [{"type": "lessons", "id": "1",
				"attributes": {"number": 2, "date": "2024-06-12", "startTime": "10:10:00", "endTime": "11:40:00",
					"subject": "Физика", "classroom": "101", "subgroup": "0"},
				"relationships": {"teacher": {"data": {"type": "teachers", "id": "5"}},
					"group": {"data": {"type": "groups", "id": "10"}}}}],
			"included": [{"type": "teachers", "id": "5", "attributes": {"fullName": "Иванов Иван Иванович", "shortName": "Иванов И.И."}}]
		}`)
	})
	repo := NewLessonRepository(api)
	w := schedule.OneDay.WindowFor(time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), 0)
	group := &model.Group{ID: 10, FacultyID: 3}

	t.Run("allowed", func(t *testing.T) {
		lessons, err := repo.ListForWindow(context.Background(), group, w, map[string]string{"subgroup": "1"})
		require.NoError(t, err)
		require.Len(t, lessons, 1)

		assert.Equal(t, []string{"10"}, gotQuery["filter[group]"])
		assert.Equal(t, []string{"2024-06-12"}, gotQuery["filter[date_from]"])
		assert.Equal(t, []string{"2024-06-12"}, gotQuery["filter[date_to]"])
		assert.Equal(t, []string{"1"}, gotQuery["filter[subgroup]"])

		l := lessons[0]
		assert.Equal(t, int64(5), l.TeacherID)
		require.NotNil(t, l.Teacher)
		assert.Equal(t, "Иванов И.И.", l.Teacher.ShortName)
		assert.Nil(t, l.Group)
	})

	t.Run("not allowed for teacher", func(t *testing.T) {
		_, err := repo.ListForWindow(context.Background(), &model.Teacher{ID: 5, FullName: "x"}, w, map[string]string{"subgroup": "1"})
		assert.ErrorIs(t, err, apiclient.ErrValidation)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := repo.ListForWindow(context.Background(), group, w, map[string]string{"room": "1"})
		assert.ErrorIs(t, err, apiclient.ErrValidation)
	})
}

func TestSubscriptionListFallsBackToFetch(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriptions/":
			io.WriteString(w, `{"data": [
				{"type": "group-subscriptions", "id": "s1",
				 "relationships": {"user": {"data": {"type": "users", "id": "u1"}},
					"group": {"data": {"type": "groups", "id": "10"}}}},
				{"type": "teacher-subscriptions", "id": "s2",
				 "relationships": {"teacher": {"data": {"type": "teachers", "id": "5"}}}}
			],
			"included": [{"type": "groups", "id": "10", "attributes": {"title": "ИВТ-21", "grade": 2},
				"relationships": {"faculty": {"data": {"type": "faculties", "id": "3"}}}}]}`)
		case "/teachers/5/":
			io.WriteString(w, `{"data": {"type": "teachers", "id": "5", "attributes": {"fullName": "Петров Пётр"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	subs, err := NewSubscriptionRepository(api).ListMine(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "u1", subs[0].UserID)
	assert.Equal(t, model.BranchGroups, subs[0].Target.Branch())
	assert.Equal(t, "ИВТ-21", subs[0].Target.DisplayName())

	assert.Equal(t, model.BranchTeachers, subs[1].Target.Branch())
	assert.Equal(t, "Петров Пётр", subs[1].Target.DisplayName())
}

func TestAccountUsesNonceEndpoint(t *testing.T) {
	var gotPath string
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"data": {"type": "social-accounts", "id": "7",
			"attributes": {"platform": "telegram", "socialId": "42"},
			"relationships": {"user": {"data": {"type": "users", "id": "u1"}}},
			"meta": {"created": true, "nonceStatus": "authenticated"}}}`)
	})
	repo := NewAccountRepository(api)

	acc, err := repo.GetOrCreate(context.Background(), model.AuthRequest{Platform: "telegram", SocialID: "42", Nonce: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/auth_with_nonce/", gotPath)
	assert.Equal(t, int64(7), acc.ID)
	assert.Equal(t, "u1", acc.UserID)
	assert.True(t, acc.Created)
	assert.Equal(t, "authenticated", acc.NonceStatus)

	_, err = repo.GetOrCreate(context.Background(), model.AuthRequest{Platform: "telegram", SocialID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "/auth/", gotPath)

	_, err = repo.GetOrCreate(context.Background(), model.AuthRequest{Platform: "telegram"})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
}

func TestFileSnapshotStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileSnapshotStore(t.TempDir())

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	taken := time.Date(2024, time.June, 12, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &model.ReferenceSnapshot{
		Groups:   []*model.Group{{ID: 1, Title: "A", Grade: 1, FacultyID: 2, Faculty: &model.Faculty{ID: 2, Title: "F"}}},
		Teachers: []*model.Teacher{{ID: 5, FullName: "Иванов"}},
		TakenAt:  taken,
	}))

	snap, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, int64(2), snap.Groups[0].Faculty.ID)
	assert.Equal(t, "Иванов", snap.Teachers[0].FullName)
	assert.True(t, taken.Equal(snap.TakenAt))
}
