package buildflags

type Widget struct {
	ID int64 `column:"id"`
}

func (Widget) TableName() string { return "widget" }

func (w *Widget) GetID() int64  { return w.ID }
func (w *Widget) SetID(v int64) { w.ID = v }
