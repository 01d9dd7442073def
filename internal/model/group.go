package model

type Group struct {
	ID        int64    `json:"id" validate:"required"`
	Title     string   `json:"title"`
	Grade     int      `json:"grade" validate:"gte=0"`
	Link      string   `json:"link"`
	FacultyID int64    `json:"facultyId" validate:"required"`
	Faculty   *Faculty `json:"faculty,omitempty"`
}

func (g *Group) EntityID() int64 { return g.ID }

func (g *Group) DisplayName() string {
	if g.Title == "" {
		return "n/a"
	}
	return g.Title
}

func (g *Group) ButtonName() string { return g.DisplayName() }

func (g *Group) ExternalLink() string { return g.Link }

func (g *Group) RelationName() string { return "group" }

func (g *Group) SubscriptionResource() string { return "group-subscriptions" }

func (g *Group) Branch() Branch { return BranchGroups }
