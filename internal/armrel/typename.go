package armrel

import "fmt"

// Relocation type codes recognized by the relocator. They live in this
// package, and internal/armelf refers to them from here, so armrel has no
// dependency on armelf — it only knows about relocation arithmetic, not
// ELF structure.
const (
	TypeNone      = 0
	TypeABS32     = 2
	TypeTHMCall   = 10
	TypeTHMJump24 = 30
)

// TypeName reproduces the source's typeStr debug helper (SPEC_FULL.md
// "Supplemented features"): a human name for a relocation type, for
// diagnostics and the inspector TUI.
func TypeName(relType uint8) string {
	switch relType {
	case TypeNone:
		return "R_ARM_NONE"
	case TypeABS32:
		return "R_ARM_ABS32"
	case TypeTHMCall:
		return "R_ARM_THM_CALL"
	case TypeTHMJump24:
		return "R_ARM_THM_JUMP24"
	default:
		return fmt.Sprintf("unknown(%d)", relType)
	}
}
