package navigation

import (
	"testing"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackTarget(t *testing.T) {
	groupsData := state.Data{state.KeyBranch: "groups", state.KeyFacultyID: int64(7), state.KeyGrade: 2, state.KeyObjID: int64(15)}
	teachersData := state.Data{state.KeyBranch: "teachers", state.KeyLetter: "П", state.KeyObjID: float64(3)}

	tests := []struct {
		name    string
		state   state.UserState
		data    state.Data
		want    Action
		expired bool
	}{
		{"idle", state.StateIdle, state.Data{}, Action{Kind: ActMain}, false},
		{"faculties", state.StateChoosingFaculty, state.Data{state.KeyBranch: "groups"}, Action{Kind: ActMain}, false},
		{"letters", state.StateChoosingLetter, state.Data{}, Action{Kind: ActMain}, false},
		{"grade", state.StateChoosingGrade, groupsData, Action{Kind: ActFaculties}, false},
		{"group", state.StateChoosingGroup, groupsData, Action{Kind: ActFaculty, ID: 7}, false},
		{"group without faculty", state.StateChoosingGroup, state.Data{state.KeyBranch: "groups"}, Action{}, true},
		{"teacher", state.StateChoosingTeacher, teachersData, Action{Kind: ActLetters}, false},
		{"group card", state.StateChoosingAction, groupsData, Action{Kind: ActGrade, Grade: 2}, false},
		{"teacher card", state.StateChoosingAction, teachersData, Action{Kind: ActLetter, Letter: "П"}, false},
		{"card without branch", state.StateChoosingAction, state.Data{state.KeyObjID: 1}, Action{}, true},
		{"group card without grade", state.StateChoosingAction, state.Data{state.KeyBranch: "groups", state.KeyFacultyID: 7}, Action{}, true},
		{"teacher card without letter", state.StateChoosingAction, state.Data{state.KeyBranch: "teachers"}, Action{}, true},
		{"schedule", state.StateReadingSchedule, teachersData, Action{Kind: ActEntity, ID: 3}, false},
		{"schedule without object", state.StateReadingSchedule, state.Data{state.KeyBranch: "groups"}, Action{}, true},
		{"confirm", state.StateWaitingSubscriptionConfirm, groupsData, Action{Kind: ActEntity, ID: 15}, false},
		{"confirm without object", state.StateWaitingSubscriptionConfirm, state.Data{}, Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BackTarget(tt.state, tt.data)
			if tt.expired {
				assert.ErrorIs(t, err, ErrStateExpired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction(t *testing.T) {
	actions := []Action{
		{Kind: ActMain},
		{Kind: ActBack},
		{Kind: ActConfirm},
		{Kind: ActFaculties},
		{Kind: ActLetters},
		{Kind: ActSubscribe},
		{Kind: ActFaculty, ID: 7},
		{Kind: ActGrade, Grade: 3},
		{Kind: ActLetter, Letter: "Ж"},
		{Kind: ActEntity, ID: 1234},
		{Kind: ActUnsubscribe, SubscriptionID: "a1b2"},
		{Kind: ActSchedule, Source: SourceContext, Mode: schedule.ModeWeek, Shift: -26},
		{Kind: ActSchedule, Source: SourceSubscription, Mode: schedule.ModeOneDay, Shift: 1},
	}
	for _, a := range actions {
		got, err := ParseAction(a.Data())
		require.NoError(t, err, a.Data())
		assert.Equal(t, a, got)
	}

	assert.Equal(t, "les:s:3days:0", ScheduleData(SourceSubscription, schedule.ModeThreeDays, 0))

	for _, bad := range []string{"", "f:x", "grade:", "a:", "sub:unsubscribe:", "les:x:week:0", "les:c:month:0", "les:c:week", "les:c:week:z", "unknown"} {
		_, err := ParseAction(bad)
		assert.ErrorIs(t, err, ErrInvalidAction, bad)
	}
}
