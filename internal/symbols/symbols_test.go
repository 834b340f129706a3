package symbols

import (
	"bytes"
	"debug/elf"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/testutil"
)

func TestReadELF(t *testing.T) {
	bin := testutil.ELF(t,
		testutil.ELFSymbol{Name: "zeta", Value: 0x1000, Size: 16, Bind: elf.STB_GLOBAL, Type: elf.STT_FUNC, Section: 1},
		testutil.ELFSymbol{Name: "alpha", Value: 0x2000, Size: 4, Bind: elf.STB_LOCAL, Type: elf.STT_OBJECT, Section: 1},
		testutil.ELFSymbol{Name: "", Type: elf.STT_SECTION, Section: 1},
		testutil.ELFSymbol{Name: "odd", Value: 0x1_0000_0004, Bind: elf.SymBind(11), Type: elf.SymType(11), Section: elf.SHN_ABS},
	)

	got, err := ReadELF(bytes.NewReader(bin))
	require.NoError(t, err)
	assert.Equal(t, []Symbol{
		{Name: "alpha", Address: 0x2000, Size: 4, Bind: "LOCAL", Type: "OBJECT", Section: ".text"},
		{Name: "odd", Address: 0x1_0000_0004, Bind: "BIND_11", Type: "TYPE_11", Section: ""},
		{Name: "zeta", Address: 0x1000, Size: 16, Bind: "GLOBAL", Type: "FUNC", Section: ".text"},
	}, got)
}

func TestReadELF_NotAnELF(t *testing.T) {
	_, err := ReadELF(bytes.NewReader([]byte("ASAP2_VERSION 1 71")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrParse))
}

func TestImport_FirstModuleDefaults(t *testing.T) {
	f, _, err := a2l.Load(testutil.EmptyModuleA2L)
	require.NoError(t, err)

	n, err := Import(f, nil, []Symbol{{Name: "foo", Address: 0x1000}, {Name: "bar", Address: 0x2000}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ms := f.Project.Module[0].Measurement
	require.Len(t, ms, 2)
	for i, want := range []struct {
		name string
		addr uint32
	}{{"foo", 0x1000}, {"bar", 0x2000}} {
		m := ms[i]
		assert.Equal(t, want.name, m.Name)
		assert.Equal(t, a2l.Ubyte, m.Datatype)
		require.NotNil(t, m.EcuAddress)
		assert.Equal(t, want.addr, m.EcuAddress.Address)
		assert.Equal(t, 0.0, m.LowerLimit)
		assert.Equal(t, 255.0, m.UpperLimit)
		assert.Equal(t, uint16(1), m.Resolution)
		assert.Equal(t, 0.0, m.Accuracy)
		assert.Equal(t, "NO_COMPU_METHOD", m.Conversion)
	}
}

func TestImport_TruncatesAddressAndKeepsDuplicates(t *testing.T) {
	f, _, err := a2l.Load(testutil.SampleA2L)
	require.NoError(t, err)
	module := "Engine"

	_, err = Import(f, &module, []Symbol{{Name: "EngineSpeed", Address: 0x1_0000_0010}})
	require.NoError(t, err)

	ms := f.Project.Module[0].Measurement
	require.Len(t, ms, 3)
	assert.Equal(t, "EngineSpeed", ms[0].Name)
	assert.Equal(t, "EngineSpeed", ms[2].Name)
	assert.Equal(t, uint32(0x10), ms[2].EcuAddress.Address)
}

func TestImport_ModuleResolution(t *testing.T) {
	f, _, err := a2l.Load(testutil.SampleA2L)
	require.NoError(t, err)
	missing := "Gearbox"
	_, err = Import(f, &missing, []Symbol{{Name: "x"}})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Len(t, f.Project.Module[0].Measurement, 2)

	empty, _, err := a2l.Load(`/begin PROJECT P "" /end PROJECT`)
	require.NoError(t, err)
	_, err = Import(empty, nil, []Symbol{{Name: "x"}})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestFilter(t *testing.T) {
	syms := []Symbol{
		{Name: "cal_idle", Type: "OBJECT"},
		{Name: "cal_main", Type: "FUNC"},
		{Name: "meas_rpm", Type: "OBJECT"},
	}
	assert.Len(t, Filter(syms, nil), 3)
	assert.Equal(t, []Symbol{syms[0], syms[1]}, Filter(syms, regexp.MustCompile(`^cal_`)))
	assert.Equal(t, []Symbol{syms[0]}, Filter(syms, regexp.MustCompile(`^cal_`), "OBJECT"))
	assert.Empty(t, Filter(syms, nil, "TLS"))
}
