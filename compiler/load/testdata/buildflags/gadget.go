//go:build gadget

package buildflags

type Gadget struct {
	ID int64 `column:"id"`
}

func (Gadget) TableName() string { return "gadget" }

func (g *Gadget) GetID() int64  { return g.ID }
func (g *Gadget) SetID(v int64) { g.ID = v }
