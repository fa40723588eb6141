package rfm

import "fmt"

// Categorías de segmentación.
const (
	CatAscendingChampions = "Ascending Champions"
	CatDecliningChampions = "Declining Champions"
	CatStars              = "Stars"
	CatStableLoyals       = "Stable Loyals"
	CatFreeFall           = "Free Fall"
	CatMomentumPotentials = "Momentum Potentials"
	CatDevelopingNewcomer = "Developing Newcomers"
	CatHotOpportunities   = "Hot Opportunities"
	CatUrgentAttention    = "Urgent Attention"
	CatImmediateRescue    = "Immediate Rescue"
	CatStableHibernating  = "Stable Hibernating"
	CatLost               = "Lost"
	CatIrregular          = "Irregular"
)

// Categories orden fijo de presentación de los segmentos.
var Categories = []string{
	CatAscendingChampions, CatDecliningChampions, CatStars, CatStableLoyals,
	CatFreeFall, CatMomentumPotentials, CatDevelopingNewcomer, CatHotOpportunities,
	CatUrgentAttention, CatImmediateRescue, CatStableHibernating, CatLost, CatIrregular,
}

// Categorize árbol de decisión sobre (R,F,M,tendencia,CAGR). El primer
// nodo que aplica gana.
func Categorize(r, f, m int, t Trend) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		switch {
		case t.growing():
			return CatAscendingChampions
		case t.declining():
			return CatDecliningChampions
		default:
			return CatStars
		}
	case f >= 3 && m >= 3 && (t.Label == TrendStrongDecline || t.CAGR <= -20):
		return CatFreeFall
	case r >= 3 && f >= 3 && t.stable():
		return CatStableLoyals
	case r >= 3 && t.growing() && (f >= 3 || m >= 3):
		return CatMomentumPotentials
	case r >= 4 && f <= 2:
		if t.growing() {
			return CatHotOpportunities
		}
		return CatDevelopingNewcomer
	case r <= 2 && (f >= 4 || m >= 4):
		return CatImmediateRescue
	case r == 1 && f <= 2:
		return CatLost
	case r <= 2 && t.stable():
		return CatStableHibernating
	case r >= 3 && t.declining():
		return CatUrgentAttention
	default:
		return CatIrregular
	}
}

var recommendations = map[string]string{
	CatAscendingChampions: "Cliente clave en crecimiento: asegurar inventario, ofrecer lanzamientos y condiciones preferenciales.",
	CatDecliningChampions: "Cliente clave perdiendo ritmo: visita gerencial para entender la caída antes de que se profundice.",
	CatStars:              "Cliente estrella estable: mantener frecuencia de visita y reconocer su lealtad.",
	CatStableLoyals:       "Cliente leal y constante: proponer ampliación de portafolio y venta cruzada.",
	CatFreeFall:           "Cliente valioso en caída libre: plan de recuperación inmediato con oferta dirigida.",
	CatMomentumPotentials: "Cliente con impulso: acompañar el crecimiento con visitas más frecuentes y metas escalonadas.",
	CatDevelopingNewcomer: "Cliente reciente: consolidar la relación con seguimiento posventa y portafolio básico.",
	CatHotOpportunities:   "Cliente nuevo creciendo rápido: priorizar visitas y presentar el portafolio completo.",
	CatUrgentAttention:    "Cliente activo con tendencia negativa: revisar precios, servicio y competencia.",
	CatImmediateRescue:    "Cliente importante sin compras recientes: llamada de rescate y propuesta comercial esta semana.",
	CatStableHibernating:  "Cliente inactivo sin cambios: campaña de reactivación de bajo costo.",
	CatLost:               "Cliente perdido: incluir en campaña de recuperación solo si el costo es bajo.",
	CatIrregular:          "Comportamiento irregular: monitorear y ajustar la estrategia según evolucione.",
}

// Recommendation texto comercial por categoría con sufijos por recencia y CAGR.
func Recommendation(category string, recencyDays int, cagr float64) string {
	text, ok := recommendations[category]
	if !ok {
		text = recommendations[CatIrregular]
	}
	switch {
	case recencyDays > 90:
		text += fmt.Sprintf(" Última compra hace %d días: contactar de inmediato.", recencyDays)
	case recencyDays > 45:
		text += fmt.Sprintf(" Lleva %d días sin comprar: programar visita.", recencyDays)
	}
	switch {
	case cagr >= 20:
		text += fmt.Sprintf(" Crece %.1f%% mensual compuesto en el año.", cagr)
	case cagr <= -20:
		text += fmt.Sprintf(" Cae %.1f%% mensual compuesto en el año.", -cagr)
	}
	return text
}
