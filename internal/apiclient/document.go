package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Identifier ссылка на ресурс: тип + id
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship связь ресурса. Data бывает null, объектом или массивом.
type Relationship struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// One возвращает единственный идентификатор связи
func (r Relationship) One() (Identifier, bool) {
	var id Identifier
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || data[0] != '{' {
		return id, false
	}
	if err := json.Unmarshal(data, &id); err != nil || id.ID == "" {
		return Identifier{}, false
	}
	return id, true
}

// Many возвращает идентификаторы to-many связи
func (r Relationship) Many() []Identifier {
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || data[0] != '[' {
		if id, ok := r.One(); ok {
			return []Identifier{id}
		}
		return nil
	}
	var ids []Identifier
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}

// Resource объект ресурса JSON:API
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    json.RawMessage         `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Meta          map[string]any          `json:"meta,omitempty"`
}

// NewResource собирает ресурс для create-запроса
func NewResource(resourceType string, attributes any) (Resource, error) {
	raw, err := json.Marshal(attributes)
	if err != nil {
		return Resource{}, fmt.Errorf("marshal attributes: %w", err)
	}
	return Resource{Type: resourceType, Attributes: raw}, nil
}

// WithRelation добавляет to-one связь
func (r Resource) WithRelation(name string, id Identifier) Resource {
	raw, _ := json.Marshal(id)
	rels := make(map[string]Relationship, len(r.Relationships)+1)
	for k, v := range r.Relationships {
		rels[k] = v
	}
	rels[name] = Relationship{Data: raw}
	r.Relationships = rels
	return r
}

// DecodeAttributes разбирает attributes в dst
func (r *Resource) DecodeAttributes(dst any) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Attributes, dst); err != nil {
		return fmt.Errorf("decode %s attributes: %w", r.Type, err)
	}
	return nil
}

// IntID возвращает числовой id
func (r *Resource) IntID() (int64, error) {
	return strconv.ParseInt(r.ID, 10, 64)
}

// Related возвращает идентификатор to-one связи
func (r *Resource) Related(name string) (Identifier, bool) {
	rel, ok := r.Relationships[name]
	if !ok {
		return Identifier{}, false
	}
	return rel.One()
}

// MetaBool читает булево поле meta
func (r *Resource) MetaBool(key string) bool {
	v, _ := r.Meta[key].(bool)
	return v
}

// MetaString читает строковое поле meta
func (r *Resource) MetaString(key string) string {
	v, _ := r.Meta[key].(string)
	return v
}

// ErrorObject элемент errors[]
type ErrorObject struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Document тело ответа JSON:API
type Document struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Included []Resource      `json:"included,omitempty"`
	Errors   []ErrorObject   `json:"errors,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

// One разбирает data как одиночный ресурс
func (d *Document) One() (*Resource, error) {
	data := bytes.TrimSpace(d.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: expected single resource", ErrSchema)
	}
	var res Resource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return &res, nil
}

// Many разбирает data как коллекцию
func (d *Document) Many() ([]Resource, error) {
	data := bytes.TrimSpace(d.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%w: expected resource collection", ErrSchema)
	}
	var res []Resource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return res, nil
}

// Included индекс включённых ресурсов type -> id -> resource
type Included map[string]map[string]*Resource

// IncludedIndex группирует included по типу
func (d *Document) IncludedIndex() Included {
	idx := make(Included)
	for i := range d.Included {
		res := &d.Included[i]
		if idx[res.Type] == nil {
			idx[res.Type] = make(map[string]*Resource)
		}
		idx[res.Type][res.ID] = res
	}
	return idx
}

// Lookup ищет ресурс по идентификатору
func (in Included) Lookup(id Identifier) (*Resource, bool) {
	res, ok := in[id.Type][id.ID]
	return res, ok
}

// Query параметры выборки: filter[...] и include
type Query struct {
	filters map[string]string
	include []string
}

// NewQuery создаёт пустой запрос
func NewQuery() Query {
	return Query{}
}

// Filter добавляет filter[key]=value
func (q Query) Filter(key, value string) Query {
	filters := make(map[string]string, len(q.filters)+1)
	for k, v := range q.filters {
		filters[k] = v
	}
	filters[key] = value
	q.filters = filters
	return q
}

// Include добавляет связи в include
func (q Query) Include(names ...string) Query {
	q.include = append(append([]string(nil), q.include...), names...)
	return q
}

// Filters копия фильтров
func (q Query) Filters() map[string]string {
	out := make(map[string]string, len(q.filters))
	for k, v := range q.filters {
		out[k] = v
	}
	return out
}

// Values кодирует запрос в query string
func (q Query) Values() url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(q.filters))
	for k := range q.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set("filter["+k+"]", q.filters[k])
	}
	if len(q.include) > 0 {
		values.Set("include", strings.Join(q.include, ","))
	}
	return values
}
