package pricing

import (
	"strings"

	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/domain/shared/valueobject"
)

// PackageID identifies a purchasable session package. The identifier is the
// package's GHS settlement price written as a string.
type PackageID string

const (
	PackageSingle PackageID = "200"
	PackageThree  PackageID = "550"
	PackageFive   PackageID = "900"
)

// SessionPackage is a statically defined offering
type SessionPackage struct {
	ID       PackageID
	Label    string
	Sessions int
	Price    valueobject.Money // settlement price
}

var packages = []SessionPackage{
	{ID: PackageSingle, Label: "Single Session", Sessions: 1, Price: valueobject.NewMoneyFromInt(200, valueobject.GHS)},
	{ID: PackageThree, Label: "Three-Session Pack", Sessions: 3, Price: valueobject.NewMoneyFromInt(550, valueobject.GHS)},
	{ID: PackageFive, Label: "Five-Session Pack", Sessions: 5, Price: valueobject.NewMoneyFromInt(900, valueobject.GHS)},
}

// ErrUnsupportedPackage is returned for identifiers outside the fixed package set
var ErrUnsupportedPackage = shared.NewDomainError("UNSUPPORTED_PACKAGE", "Unsupported session package")

// Packages returns all session packages in display order
func Packages() []SessionPackage {
	out := make([]SessionPackage, len(packages))
	copy(out, packages)
	return out
}

// LookupPackage returns the package with the given identifier
func LookupPackage(id string) (SessionPackage, error) {
	id = strings.TrimSpace(id)
	for _, p := range packages {
		if string(p.ID) == id {
			return p, nil
		}
	}
	return SessionPackage{}, ErrUnsupportedPackage
}
