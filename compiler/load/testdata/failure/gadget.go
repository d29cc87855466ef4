package failure

type Gadget struct {
	ID   int64  `column:"id"`
	Name string `column:"name"`
}

func (Gadget) TableName() string { return "gadget" }

func (g *Gadget) GetID() int64    { return g.ID }
func (g *Gadget) SetID(v int64)   { g.ID = v }
func (g *Gadget) GetName() string { return g.Name }
