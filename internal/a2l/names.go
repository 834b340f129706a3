package a2l

func (*Measurement) isRecord()           {}
func (*Characteristic) isRecord()        {}
func (*AxisPts) isRecord()               {}
func (*CompuMethod) isRecord()           {}
func (*CompuTab) isRecord()              {}
func (*CompuVtab) isRecord()             {}
func (*CompuVtabRange) isRecord()        {}
func (*RecordLayout) isRecord()          {}
func (*Function) isRecord()              {}
func (*Group) isRecord()                 {}
func (*Unit) isRecord()                  {}
func (*Frame) isRecord()                 {}
func (*Blob) isRecord()                  {}
func (*Instance) isRecord()              {}
func (*Transformer) isRecord()           {}
func (*TypedefAxis) isRecord()           {}
func (*TypedefBlob) isRecord()           {}
func (*TypedefCharacteristic) isRecord() {}
func (*TypedefMeasurement) isRecord()    {}
func (*TypedefStructure) isRecord()      {}
func (*ModCommon) isRecord()             {}
func (*ModPar) isRecord()                {}
func (*VariantCoding) isRecord()         {}
func (*A2ml) isRecord()                  {}
func (*IfData) isRecord()                {}
func (*UserRights) isRecord()            {}

func (m *Module) ObjectName() string        { return m.Name }
func (m *Module) SetObjectName(name string) { m.Name = name }

func (m *Measurement) ObjectName() string        { return m.Name }
func (m *Measurement) SetObjectName(name string) { m.Name = name }

func (c *Characteristic) ObjectName() string        { return c.Name }
func (c *Characteristic) SetObjectName(name string) { c.Name = name }

func (a *AxisPts) ObjectName() string        { return a.Name }
func (a *AxisPts) SetObjectName(name string) { a.Name = name }

func (c *CompuMethod) ObjectName() string        { return c.Name }
func (c *CompuMethod) SetObjectName(name string) { c.Name = name }

func (c *CompuTab) ObjectName() string        { return c.Name }
func (c *CompuTab) SetObjectName(name string) { c.Name = name }

func (c *CompuVtab) ObjectName() string        { return c.Name }
func (c *CompuVtab) SetObjectName(name string) { c.Name = name }

func (c *CompuVtabRange) ObjectName() string        { return c.Name }
func (c *CompuVtabRange) SetObjectName(name string) { c.Name = name }

func (r *RecordLayout) ObjectName() string        { return r.Name }
func (r *RecordLayout) SetObjectName(name string) { r.Name = name }

func (f *Function) ObjectName() string        { return f.Name }
func (f *Function) SetObjectName(name string) { f.Name = name }

func (g *Group) ObjectName() string        { return g.Name }
func (g *Group) SetObjectName(name string) { g.Name = name }

func (u *Unit) ObjectName() string        { return u.Name }
func (u *Unit) SetObjectName(name string) { u.Name = name }

func (f *Frame) ObjectName() string        { return f.Name }
func (f *Frame) SetObjectName(name string) { f.Name = name }

func (b *Blob) ObjectName() string        { return b.Name }
func (b *Blob) SetObjectName(name string) { b.Name = name }

func (i *Instance) ObjectName() string        { return i.Name }
func (i *Instance) SetObjectName(name string) { i.Name = name }

func (t *Transformer) ObjectName() string        { return t.Name }
func (t *Transformer) SetObjectName(name string) { t.Name = name }

func (t *TypedefAxis) ObjectName() string        { return t.Name }
func (t *TypedefAxis) SetObjectName(name string) { t.Name = name }

func (t *TypedefBlob) ObjectName() string        { return t.Name }
func (t *TypedefBlob) SetObjectName(name string) { t.Name = name }

func (t *TypedefCharacteristic) ObjectName() string        { return t.Name }
func (t *TypedefCharacteristic) SetObjectName(name string) { t.Name = name }

func (t *TypedefMeasurement) ObjectName() string        { return t.Name }
func (t *TypedefMeasurement) SetObjectName(name string) { t.Name = name }

func (t *TypedefStructure) ObjectName() string        { return t.Name }
func (t *TypedefStructure) SetObjectName(name string) { t.Name = name }
