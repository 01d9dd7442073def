package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/go-playground/validator/v10"
)

// ResourceStore удалённое хранилище ресурсов JSON:API
type ResourceStore interface {
	Get(ctx context.Context, resourceType, id string, q apiclient.Query) (*apiclient.Document, error)
	List(ctx context.Context, resourceType string, q apiclient.Query) (*apiclient.Document, error)
	Create(ctx context.Context, res apiclient.Resource) (*apiclient.Document, error)
	Post(ctx context.Context, path string, res apiclient.Resource) (*apiclient.Document, error)
	Delete(ctx context.Context, resourceType, id string) error
}

var validate = validator.New()

// schemaError оборачивает несоответствие схемы в RemoteError
func schemaError(op string, err error) error {
	return &apiclient.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", apiclient.ErrSchema, err)}
}

// decodeValid разбирает attributes и проверяет результат по validate-тегам
func decodeValid(op string, res *apiclient.Resource, dst any, fill func() error) error {
	if err := res.DecodeAttributes(dst); err != nil {
		return schemaError(op, err)
	}
	if fill != nil {
		if err := fill(); err != nil {
			return schemaError(op, err)
		}
	}
	if err := validate.Struct(dst); err != nil {
		return schemaError(op, err)
	}
	return nil
}

func parseID(res *apiclient.Resource) (int64, error) {
	id, err := res.IntID()
	if err != nil {
		return 0, fmt.Errorf("%s id %q: %w", res.Type, res.ID, err)
	}
	return id, nil
}

func relatedID(res *apiclient.Resource, name string) (int64, bool, error) {
	ref, ok := res.Related(name)
	if !ok {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(ref.ID, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s.%s id %q: %w", res.Type, name, ref.ID, err)
	}
	return id, true, nil
}

func facultyFromResource(res *apiclient.Resource) (*model.Faculty, error) {
	var f model.Faculty
	err := decodeValid("decode faculty", res, &f, func() (err error) {
		f.ID, err = parseID(res)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// groupFromResource собирает группу; факультет подставляется из included, если он там есть
func groupFromResource(res *apiclient.Resource, included apiclient.Included) (*model.Group, error) {
	var g model.Group
	err := decodeValid("decode group", res, &g, func() error {
		id, err := parseID(res)
		if err != nil {
			return err
		}
		g.ID = id

		facultyID, ok, err := relatedID(res, "faculty")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("group %d has no faculty", id)
		}
		g.FacultyID = facultyID

		if ref, ok := res.Related("faculty"); ok {
			if fres, ok := included.Lookup(ref); ok {
				f, err := facultyFromResource(fres)
				if err != nil {
					return err
				}
				g.Faculty = f
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func teacherFromResource(res *apiclient.Resource) (*model.Teacher, error) {
	var t model.Teacher
	err := decodeValid("decode teacher", res, &t, func() (err error) {
		t.ID, err = parseID(res)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
