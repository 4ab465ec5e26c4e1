package outfmt

import (
	"taxlot/basis"
)

type OutputType int

const (
	Disposals OutputType = iota
	AggregateGains
)

type LotWriter interface {
	PrintRenderTable(outType OutputType, name string, tableModel *basis.RenderTable) error
}
