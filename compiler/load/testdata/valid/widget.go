package valid

import "time"

type Widget struct {
	ID      int64      `column:"id"`
	Name    *string    `column:"name"`
	Active  *bool      `column:"active"`
	Created time.Time  `column:"created_at"`
	Deleted *time.Time `column:"-"`
	note    string
}

func (Widget) TableName() string { return "widget" }

func (w *Widget) GetID() int64           { return w.ID }
func (w *Widget) SetID(v int64)          { w.ID = v }
func (w *Widget) GetName() *string       { return w.Name }
func (w *Widget) SetName(v *string)      { w.Name = v }
func (w *Widget) IsActive() *bool        { return w.Active }
func (w *Widget) SetActive(v *bool)      { w.Active = v }
func (w *Widget) GetCreated() time.Time  { return w.Created }
func (w *Widget) SetCreated(v time.Time) { w.Created = v }

// Plain has no column and is not an entity.
type Plain struct {
	A int
}
