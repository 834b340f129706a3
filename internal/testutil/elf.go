package testutil

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// ELFSymbol describes one symbol table entry written by ELF.
type ELFSymbol struct {
	Name    string
	Value   uint64
	Size    uint64
	Bind    elf.SymBind
	Type    elf.SymType
	Section elf.SectionIndex
}

// ELF builds a little-endian ELF64 relocatable object with sections
// .text (index 1), .strtab, .symtab and .shstrtab.
func ELF(t testing.TB, syms ...ELFSymbol) []byte {
	t.Helper()

	shstrtab := []byte("\x00.text\x00.strtab\x00.symtab\x00.shstrtab\x00")
	strtab := []byte{0}
	nameOff := make([]uint32, len(syms))
	for i, s := range syms {
		if s.Name == "" {
			continue
		}
		nameOff[i] = uint32(len(strtab))
		strtab = append(strtab, s.Name...)
		strtab = append(strtab, 0)
	}

	var symtab bytes.Buffer
	write(t, &symtab, elf.Sym64{})
	for i, s := range syms {
		write(t, &symtab, elf.Sym64{
			Name:  nameOff[i],
			Info:  elf.ST_INFO(s.Bind, s.Type),
			Shndx: uint16(s.Section),
			Value: s.Value,
			Size:  s.Size,
		})
	}

	const ehsize = 64
	shstrOff := uint64(ehsize)
	strOff := shstrOff + uint64(len(shstrtab))
	symOff := align8(strOff + uint64(len(strtab)))
	shOff := align8(symOff + uint64(symtab.Len()))

	sections := []elf.Section64{
		{},
		{Name: 1, Type: uint32(elf.SHT_PROGBITS), Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR), Addralign: 1},
		{Name: 7, Type: uint32(elf.SHT_STRTAB), Off: strOff, Size: uint64(len(strtab)), Addralign: 1},
		{Name: 15, Type: uint32(elf.SHT_SYMTAB), Off: symOff, Size: uint64(symtab.Len()), Link: 2, Info: 1, Addralign: 8, Entsize: 24},
		{Name: 23, Type: uint32(elf.SHT_STRTAB), Off: shstrOff, Size: uint64(len(shstrtab)), Addralign: 1},
	}

	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var out bytes.Buffer
	write(t, &out, elf.Header64{
		Ident:     ident,
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shOff,
		Ehsize:    ehsize,
		Shentsize: 64,
		Shnum:     uint16(len(sections)),
		Shstrndx:  4,
	})
	out.Write(shstrtab)
	out.Write(strtab)
	pad(&out, symOff)
	out.Write(symtab.Bytes())
	pad(&out, shOff)
	for _, s := range sections {
		write(t, &out, s)
	}
	return out.Bytes()
}

func write(t testing.TB, buf *bytes.Buffer, v any) {
	t.Helper()
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		t.Fatal(err)
	}
}

func align8(n uint64) uint64 { return (n + 7) &^ 7 }

func pad(buf *bytes.Buffer, to uint64) {
	for uint64(buf.Len()) < to {
		buf.WriteByte(0)
	}
}
