package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReloadResultDTO resultado de reload_data.
type ReloadResultDTO struct {
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	RecordsCount int            `json:"records_count"`
	LoadTime     float64        `json:"load_time"` // segundos
	LoadID       string         `json:"load_id,omitempty"`
	LoadedAt     time.Time      `json:"loaded_at"`
	Counts       map[string]int `json:"counts,omitempty"`
}

// FrameStatusDTO registros y última actualización de una colección en memoria.
type FrameStatusDTO struct {
	Records   int       `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceDocumentDTO tamaño de una colección raíz en la fuente.
type SourceDocumentDTO struct {
	Path      string          `json:"path"`
	SizeBytes decimal.Decimal `json:"size_bytes"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CacheEntriesDTO estado del caché de cálculos.
type CacheEntriesDTO struct {
	Entries     int              `json:"entries"`
	MaxEntries  int              `json:"max_entries"`
	Hits        int64            `json:"hits"`
	Misses      int64            `json:"misses"`
	Evictions   int64            `json:"evictions"`
	Expirations int64            `json:"expirations"`
	Accesses    map[string]int64 `json:"accesses"`
}

// CacheStatusDTO respuesta de get_cache_status.
type CacheStatusDTO struct {
	LoadID      string              `json:"load_id"`
	Sales       FrameStatusDTO      `json:"sales"`
	Convenios   FrameStatusDTO      `json:"convenios"`
	Receipts    FrameStatusDTO      `json:"receipts"`
	Receivables FrameStatusDTO      `json:"receivables"`
	Clients     FrameStatusDTO      `json:"clients"`
	NumClients  int                 `json:"num_clients"`
	Masters     FrameStatusDTO      `json:"masters"`
	Cache       CacheEntriesDTO     `json:"cache"`
	Source      []SourceDocumentDTO `json:"source,omitempty"`
}

// FilterOptionsDTO listas de los desplegables, con el centinela primero.
type FilterOptionsDTO struct {
	Sellers        []string `json:"sellers"`
	TransferAgents []string `json:"transfer_agents"`
	Months         []string `json:"months"`
}

// ClientOptionDTO cliente seleccionable.
type ClientOptionDTO struct {
	ClientID string `json:"client_id"`
	Label    string `json:"label"`
}

// ImpactRowDTO impactos proyectados vs clientes realizados por vendedor y molécula.
type ImpactRowDTO struct {
	Seller      string          `json:"seller"`
	Molecule    string          `json:"molecule"`
	Projected   int             `json:"projected"`
	Realized    int             `json:"realized"`
	ProgressPct decimal.Decimal `json:"progress_pct"`
}

// ImpactProgressDTO avance de impactos de un trimestre.
type ImpactProgressDTO struct {
	Quarter   string         `json:"quarter"`
	Rows      []ImpactRowDTO `json:"rows"`
	Molecules []string       `json:"molecules"`
	Sellers   []string       `json:"sellers"`
}
