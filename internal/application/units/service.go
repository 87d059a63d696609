package units

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

type edgeKey struct {
	from string
	to   string
}

// Service convierte cantidades entre unidades compatibles usando la tabla de
// referencia cargada al construirlo. Los mapas son inmutables después de New,
// por lo que es seguro para lecturas concurrentes. Es una instancia explícita:
// no hay estado a nivel de paquete, cada test puede construir la suya.
type Service struct {
	byID     map[string]*entity.Unit
	bySymbol map[string]*entity.Unit
	edges    map[edgeKey]decimal.Decimal
}

// NewService construye el servicio a partir de unidades y aristas de conversión.
// Las aristas con factor <= 0 se descartan: dividirían por cero al derivar la inversa.
func NewService(units []*entity.Unit, conversions []*entity.UnitConversion) *Service {
	s := &Service{
		byID:     make(map[string]*entity.Unit, len(units)),
		bySymbol: make(map[string]*entity.Unit, len(units)),
		edges:    make(map[edgeKey]decimal.Decimal, len(conversions)),
	}
	for _, u := range units {
		s.byID[u.ID] = u
		s.bySymbol[u.Symbol] = u
	}
	for _, c := range conversions {
		if !c.Factor.GreaterThan(decimal.Zero) {
			continue
		}
		s.edges[edgeKey{from: c.FromUnitID, to: c.ToUnitID}] = c.Factor
	}
	return s
}

// FromRepository carga la tabla de referencia y construye el servicio.
// Se invoca una vez al arrancar la aplicación.
func FromRepository(repo repository.UnitRepository) (*Service, error) {
	us, err := repo.ListUnits()
	if err != nil {
		return nil, fmt.Errorf("cargar unidades: %w", err)
	}
	convs, err := repo.ListConversions()
	if err != nil {
		return nil, fmt.Errorf("cargar conversiones: %w", err)
	}
	return NewService(us, convs), nil
}

// Convert convierte una cantidad entre dos unidades (por ID).
//   - misma unidad: identidad;
//   - arista directa from->to: multiplica por el factor;
//   - arista inversa to->from: divide por el factor;
//   - si no: UnresolvedConversionError con ambos símbolos.
//
// Solo se resuelve un salto: kg->g->mg no se encadena salvo que exista la arista kg->mg.
func (s *Service) Convert(qty decimal.Decimal, fromUnitID, toUnitID string) (decimal.Decimal, error) {
	if fromUnitID == toUnitID {
		return qty, nil
	}
	if factor, ok := s.edges[edgeKey{from: fromUnitID, to: toUnitID}]; ok {
		return qty.Mul(factor), nil
	}
	if factor, ok := s.edges[edgeKey{from: toUnitID, to: fromUnitID}]; ok {
		return qty.Div(factor), nil
	}
	return decimal.Zero, &domain.UnresolvedConversionError{
		From: s.Symbol(fromUnitID),
		To:   s.Symbol(toUnitID),
	}
}

// Symbol devuelve el símbolo de la unidad, o el ID tal cual si no está registrada.
func (s *Service) Symbol(unitID string) string {
	if u, ok := s.byID[unitID]; ok {
		return u.Symbol
	}
	return unitID
}

// UnitBySymbol resuelve una unidad por su código corto.
func (s *Service) UnitBySymbol(symbol string) (*entity.Unit, bool) {
	u, ok := s.bySymbol[symbol]
	return u, ok
}
