package navigation

import (
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/controller/state"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

// BackTarget вычисляет, куда ведёт "Назад", только по текущему состоянию и данным сессии.
// Результат всегда прямой переход, который пересобирает предыдущий экран.
func BackTarget(st state.UserState, data state.Data) (Action, error) {
	switch st {
	case state.StateWaitingSubscriptionConfirm, state.StateReadingSchedule:
		objID, ok := data.Int64(state.KeyObjID)
		if !ok {
			return Action{}, expired(st, state.KeyObjID)
		}
		return Action{Kind: ActEntity, ID: objID}, nil

	case state.StateChoosingAction:
		branch, ok := data.String(state.KeyBranch)
		if !ok {
			return Action{}, expired(st, state.KeyBranch)
		}
		switch model.Branch(branch) {
		case model.BranchGroups:
			if _, ok := data.Int64(state.KeyFacultyID); !ok {
				return Action{}, expired(st, state.KeyFacultyID)
			}
			grade, ok := data.Int(state.KeyGrade)
			if !ok {
				return Action{}, expired(st, state.KeyGrade)
			}
			return Action{Kind: ActGrade, Grade: grade}, nil
		case model.BranchTeachers:
			letter, ok := data.String(state.KeyLetter)
			if !ok {
				return Action{}, expired(st, state.KeyLetter)
			}
			return Action{Kind: ActLetter, Letter: letter}, nil
		}
		return Action{}, fmt.Errorf("%w: unknown branch %q", ErrStateExpired, branch)

	case state.StateChoosingGroup:
		facultyID, ok := data.Int64(state.KeyFacultyID)
		if !ok {
			return Action{}, expired(st, state.KeyFacultyID)
		}
		return Action{Kind: ActFaculty, ID: facultyID}, nil

	case state.StateChoosingGrade:
		return Action{Kind: ActFaculties}, nil

	case state.StateChoosingTeacher:
		return Action{Kind: ActLetters}, nil
	}

	return Action{Kind: ActMain}, nil
}

func expired(st state.UserState, key string) error {
	return fmt.Errorf("%w: %s without %s", ErrStateExpired, st, key)
}
