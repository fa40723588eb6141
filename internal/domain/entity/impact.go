package entity

// Impacts proyección y realización de impactos por molécula.
type Impacts struct {
	ProjectedQuarter string
	// Projected molécula → vendedor → impactos proyectados.
	Projected map[string]map[string]int
	// Realized trimestre ("YYYY Qn") → molécula → vendedor → NIT → cliente.
	Realized  map[string]map[string]map[string]map[string]string
	Molecules []string // AllToken primero
	Sellers   []string // AllToken primero
}

// EmptyImpacts devuelve la forma vacía.
func EmptyImpacts() Impacts {
	return Impacts{
		Projected: map[string]map[string]int{},
		Realized:  map[string]map[string]map[string]map[string]string{},
		Molecules: []string{AllToken},
		Sellers:   []string{AllToken},
	}
}
