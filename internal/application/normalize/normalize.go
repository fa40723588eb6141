// Package normalize convierte los árboles documentales crudos en colecciones
// tipadas (ventas, recibos, cartera, convenios, cuotas, impactos, maestros).
// Es puro: no lee la fuente ni escribe en ella. Los registros mal formados se
// omiten y se cuentan.
package normalize

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/domain/entity"
	"github.com/jhoicas/farma-analytics/pkg/nit"
	"github.com/jhoicas/farma-analytics/pkg/textnorm"
)

var hundred = decimal.NewFromInt(100)

// Normalizer transforma árboles con los maestros y la fecha de corte dados.
type Normalizer struct {
	masters *entity.Masters
	loc     *time.Location
	today   time.Time
}

// New construye el normalizador. today fija la fecha para días de mora.
func New(masters *entity.Masters, loc *time.Location, today time.Time) *Normalizer {
	if masters == nil {
		masters = entity.EmptyMasters()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{masters: masters, loc: loc, today: dateOnly(today, loc)}
}

// taxID NIT del registro en forma de cruce.
func taxID(rec map[string]any) string { return nit.Canonical(field(rec, "nit")) }

// ── Maestros ──────────────────────────────────────────────────────────────────

// CodeTable interpreta una tabla código → etiqueta.
func CodeTable(tree any) map[string]string {
	out := map[string]string{}
	m, ok := asMap(tree)
	if !ok {
		return out
	}
	for code, v := range m {
		if label := str(v); label != "" {
			out[code] = label
		} else if rec, ok := v.(map[string]any); ok {
			if label := field(rec, "nombre", "descripcion", "label", "name"); label != "" {
				out[code] = label
			}
		}
	}
	return out
}

// Clients interpreta maestros/clientes_id.
func Clients(tree any) (map[string]entity.Client, int) {
	out := map[string]entity.Client{}
	m, ok := asMap(tree)
	if !ok {
		return out, 0
	}
	skipped := 0
	for id, v := range m {
		rec, ok := v.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		if s := field(rec, "id1"); s != "" {
			id = s
		}
		credit, ok := dec(rec["cupo_credito"])
		if !ok {
			credit = decimal.Zero
		}
		out[id] = entity.Client{
			ID:                id,
			TaxID:             taxID(rec),
			Name:              field(rec, "cliente_nombre", "cliente", "nombre"),
			TradeName:         field(rec, "razon"),
			Lat:               float(rec["lat"]),
			Long:              float(rec["long"]),
			City:              field(rec, "ciudad"),
			Department:        field(rec, "departamento"),
			Zone:              field(rec, "zona"),
			SubZone:           field(rec, "subzona"),
			Status:            field(rec, "estado"),
			Type:              field(rec, "tipo"),
			PaymentMethodCode: field(rec, "forma_pago"),
			CreditLimit:       credit,
			SellerCode:        field(rec, "vendedor"),
		}
	}
	return out, skipped
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// KindOf clasifica la etiqueta del tipo de documento.
func KindOf(label string) entity.DocKind {
	switch {
	case textnorm.Contains(label, "devolucion"):
		return entity.DocReturn
	case textnorm.Contains(label, "nota credito", "nota cr"):
		return entity.DocCreditNote
	case textnorm.Contains(label, "remision"):
		return entity.DocSale
	default:
		return entity.DocOther
	}
}

// Sales interpreta fac_ventas: una línea por registro, hidratada desde el
// maestro de clientes por id1. Sin valor_bruto numérico el registro se omite.
func (n *Normalizer) Sales(tree any) ([]entity.Sale, int) {
	m, ok := asMap(tree)
	if !ok {
		return []entity.Sale{}, 0
	}
	out := make([]entity.Sale, 0, len(m))
	skipped := 0
	for _, id := range sortedKeys(m) {
		rec, ok := m[id].(map[string]any)
		if !ok {
			skipped++
			continue
		}
		s, ok := n.sale(id, rec)
		if !ok {
			skipped++
			continue
		}
		out = append(out, s)
	}
	return out, skipped
}

func (n *Normalizer) sale(id string, rec map[string]any) (entity.Sale, bool) {
	if _, present := rec["valor_bruto"]; !present {
		return entity.Sale{}, false
	}
	gross, ok := dec(rec["valor_bruto"])
	if !ok {
		return entity.Sale{}, false
	}
	discount, ok := dec(rec["descuento"])
	if !ok {
		return entity.Sale{}, false
	}
	tax, ok := dec(rec["iva"])
	if !ok {
		return entity.Sale{}, false
	}

	clientID := field(rec, "id1")
	client, _ := n.masters.Client(clientID)
	docType := n.masters.DocTypeLabel(field(rec, "tipo"))

	s := entity.Sale{
		DocumentID:    id,
		Seller:        n.masters.ResolveSeller(field(rec, "vendedor")),
		TransferAgent: n.masters.ResolveSeller(field(rec, "transferencista")),
		ClientID:      clientID,
		ClientName:    firstNonEmpty(client.Name, field(rec, "cliente_nombre", "cliente")),
		TradeName:     firstNonEmpty(client.TradeName, field(rec, "razon")),
		TaxID:         firstNonEmpty(client.TaxID, taxID(rec)),
		DocType:       docType,
		Kind:          KindOf(docType),
		Gross:         gross,
		Discount:      discount,
		Tax:           tax,
		Net:           gross.Sub(discount),
		Zone:          client.Zone,
		SubZone:       client.SubZone,
		CreditLimit:   client.CreditLimit,
	}
	if client.PaymentMethodCode != "" {
		s.PaymentMethod = n.masters.PaymentLabel(client.PaymentMethodCode)
	} else {
		s.PaymentMethod = entity.NotResolved
	}
	if t, ok := parseTime(rec["fecha"], n.loc); ok {
		s.Date = t
		s.YearMonth = entity.YearMonthOf(t)
	}
	s.FullClient = entity.FullClientLabel(s.ClientName, s.TradeName)
	return s, true
}

// ── Recibos de caja ───────────────────────────────────────────────────────────

// Receipts interpreta recibos_caja. El vendedor sale del maestro de clientes;
// si no se resuelve, el recibo se descarta.
func (n *Normalizer) Receipts(tree any) ([]entity.Receipt, int) {
	m, ok := asMap(tree)
	if !ok {
		return []entity.Receipt{}, 0
	}
	out := make([]entity.Receipt, 0, len(m))
	skipped := 0
	for _, id := range sortedKeys(m) {
		rec, ok := m[id].(map[string]any)
		if !ok {
			skipped++
			continue
		}
		amount, ok := dec(rec["valor_recibo"])
		if !ok {
			skipped++
			continue
		}
		clientID := field(rec, "id1")
		seller := n.masters.SellerOfClient(clientID)
		if seller.Resolution == entity.Unresolved {
			skipped++
			continue
		}
		r := entity.Receipt{ReceiptID: id, ClientID: clientID, Amount: amount, Seller: seller}
		if t, ok := parseTime(rec["fecha"], n.loc); ok {
			r.Date = t
			r.YearMonth = entity.YearMonthOf(t)
		}
		out = append(out, r)
	}
	return out, skipped
}

// ── Cartera ───────────────────────────────────────────────────────────────────

// Receivables aplana cartera_actual (cliente → documentos) y calcula días de mora.
func (n *Normalizer) Receivables(tree any) ([]entity.Receivable, int) {
	m, ok := asMap(tree)
	if !ok {
		return []entity.Receivable{}, 0
	}
	out := make([]entity.Receivable, 0, len(m)*2)
	skipped := 0
	for _, clientID := range sortedKeys(m) {
		rec, ok := m[clientID].(map[string]any)
		if !ok {
			skipped++
			continue
		}
		docs, ok := asMap(rec["documentos"])
		if !ok {
			continue
		}
		head := entity.Receivable{
			ClientID:      clientID,
			ClientName:    field(rec, "cliente"),
			TradeName:     field(rec, "razon"),
			City:          field(rec, "ciudad"),
			TaxID:         taxID(rec),
			Seller:        n.sellerRef(field(rec, "vendedor"), clientID),
			PaymentMethod: n.paymentLabel(field(rec, "forma_pago")),
		}
		if head.ClientName == "" {
			if c, ok := n.masters.Client(clientID); ok {
				head.ClientName, head.TradeName = c.Name, firstNonEmpty(head.TradeName, c.TradeName)
			}
		}
		head.FullClient = entity.FullClientLabel(head.ClientName, head.TradeName)

		for _, docID := range sortedKeys(docs) {
			d, ok := docs[docID].(map[string]any)
			if !ok {
				skipped++
				continue
			}
			r, ok := n.receivable(head, docID, d)
			if !ok {
				skipped++
				continue
			}
			out = append(out, r)
		}
	}
	return out, skipped
}

func (n *Normalizer) receivable(head entity.Receivable, docID string, d map[string]any) (entity.Receivable, bool) {
	r := head
	r.DocumentID = docID
	amounts := []struct {
		dst *decimal.Decimal
		key string
	}{
		{&r.Value, "valor"},
		{&r.Applied, "aplicado"},
		{&r.Balance, "saldo"},
		{&r.OverdueAmount, "vencida"},
		{&r.NonOverdueAmount, "sin_vencer"},
	}
	for _, a := range amounts {
		v, ok := dec(d[a.key])
		if !ok {
			return entity.Receivable{}, false
		}
		*a.dst = v
	}
	r.Notes = field(d, "notas")
	if t, ok := parseTime(d["fecha"], n.loc); ok {
		r.IssueDate = t
	}
	if t, ok := parseTime(d["vencimiento"], n.loc); ok {
		r.DueDate = t
		r.Dated = true
		r.DaysOverdue = daysBetween(t, n.today, n.loc)
	}
	r.Status = entity.StatusForDays(r.DaysOverdue, r.Dated)
	return r, true
}

// sellerRef acepta código o nombre; vacío → vendedor del maestro de clientes.
func (n *Normalizer) sellerRef(v, clientID string) entity.PartyRef {
	if v == "" {
		return n.masters.SellerOfClient(clientID)
	}
	if _, ok := n.masters.Sellers[v]; ok {
		return n.masters.ResolveSeller(v)
	}
	return entity.NewPartyRef("", v)
}

func (n *Normalizer) paymentLabel(v string) string {
	if v == "" {
		return entity.NotResolved
	}
	if _, ok := n.masters.PaymentMethods[v]; ok {
		return n.masters.PaymentLabel(v)
	}
	return v
}

// ── Convenios ─────────────────────────────────────────────────────────────────

// Convenios conserva solo los confirmados y escala rebate_pct de 0..1 a 0..100.
func (n *Normalizer) Convenios(tree any) ([]entity.Convenio, int) {
	m, ok := asMap(tree)
	if !ok {
		return []entity.Convenio{}, 0
	}
	out := make([]entity.Convenio, 0, len(m))
	skipped := 0
	for _, key := range sortedKeys(m) {
		rec, ok := m[key].(map[string]any)
		if !ok {
			skipped++
			continue
		}
		status := field(rec, "estado")
		if !isConfirmed(status) {
			continue
		}
		rebate, ok := dec(rec["rebate_pct"])
		if !ok {
			skipped++
			continue
		}
		target, ok := dec(rec["target_value"])
		if !ok {
			skipped++
			continue
		}
		out = append(out, entity.Convenio{
			TaxID:        firstNonEmpty(taxID(rec), nit.Canonical(key)),
			ClientName:   field(rec, "client_name"),
			TradeName:    field(rec, "razon"),
			SellerName:   field(rec, "seller_name"),
			Status:       status,
			RebatePct:    rebate.Mul(hundred),
			TargetValue:  target,
			Observations: field(rec, "observations"),
		})
	}
	return out, skipped
}

func isConfirmed(status string) bool {
	return textnorm.Equal(status, "confirmado") || textnorm.Equal(status, "confirmed")
}

// ── Cuotas ────────────────────────────────────────────────────────────────────

// Quotas despliega {YYYYMM: {vendedor: monto}}.
func (n *Normalizer) Quotas(tree any) ([]entity.Quota, int) {
	m, ok := asMap(tree)
	if !ok {
		return []entity.Quota{}, 0
	}
	out := make([]entity.Quota, 0, len(m)*8)
	skipped := 0
	for _, month := range sortedKeys(m) {
		period, ok := parseMonth(month, n.loc)
		if !ok {
			skipped++
			continue
		}
		sellers, ok := asMap(m[month])
		if !ok {
			skipped++
			continue
		}
		for _, seller := range sortedKeys(sellers) {
			amount, ok := dec(sellers[seller])
			if !ok {
				skipped++
				continue
			}
			out = append(out, entity.Quota{Month: month, Period: period, Seller: seller, Amount: amount})
		}
	}
	return out, skipped
}

// parseMonth interpreta YYYYMM.
func parseMonth(s string, loc *time.Location) (time.Time, bool) {
	if len(s) != 6 {
		return time.Time{}, false
	}
	y, err1 := strconv.Atoi(s[:4])
	mo, err2 := strconv.Atoi(s[4:])
	if err1 != nil || err2 != nil || mo < 1 || mo > 12 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, loc), true
}

// ── Impactos ──────────────────────────────────────────────────────────────────

// Impacts separa proyectadas y reales; las listas de moléculas y vendedores
// van ordenadas con el centinela ALL primero.
func (n *Normalizer) Impacts(tree any) entity.Impacts {
	out := entity.EmptyImpacts()
	root, ok := asMap(tree)
	if !ok {
		return out
	}
	molecules := map[string]struct{}{}
	sellers := map[string]struct{}{}

	if proj, ok := root["proyectadas"].(map[string]any); ok {
		out.ProjectedQuarter = field(proj, "quarter")
		if dist, ok := asMap(proj["distribucion"]); ok {
			for mol, v := range dist {
				bySeller, ok := asMap(v)
				if !ok {
					continue
				}
				row := map[string]int{}
				for seller, count := range bySeller {
					c, ok := dec(count)
					if !ok {
						continue
					}
					row[seller] = int(c.IntPart())
					sellers[seller] = struct{}{}
				}
				out.Projected[mol] = row
				molecules[mol] = struct{}{}
			}
		}
	}

	if reales, ok := asMap(root["reales"]); ok {
		for quarter, v := range reales {
			byMol, ok := asMap(v)
			if !ok {
				continue
			}
			qrow := map[string]map[string]map[string]string{}
			for mol, v := range byMol {
				bySeller, ok := asMap(v)
				if !ok {
					continue
				}
				mrow := map[string]map[string]string{}
				for seller, v := range bySeller {
					clients, ok := asMap(v)
					if !ok {
						continue
					}
					crow := make(map[string]string, len(clients))
					for nit, name := range clients {
						crow[nit] = str(name)
					}
					mrow[seller] = crow
					sellers[seller] = struct{}{}
				}
				qrow[mol] = mrow
				molecules[mol] = struct{}{}
			}
			out.Realized[quarter] = qrow
		}
	}

	out.Molecules = withAll(molecules)
	out.Sellers = withAll(sellers)
	return out
}

func withAll(set map[string]struct{}) []string {
	list := make([]string, 0, len(set)+1)
	for k := range set {
		list = append(list, k)
	}
	sort.Strings(list)
	return append([]string{entity.AllToken}, list...)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
