package domain

type PackageID string

const (
	PackagePS3Only PackageID = "ps3_only"
	PackagePS3TV   PackageID = "ps3_tv"
	PackagePS4Only PackageID = "ps4_only"
	PackagePS4TV   PackageID = "ps4_tv"
)

// RentalPackage is a named bundle of required device types with a flat price.
type RentalPackage struct {
	ID    PackageID    `json:"id"`
	Name  string       `json:"name"`
	Price int64        `json:"price"`
	Items []DeviceType `json:"items"`
}

var rentalPackages = map[PackageID]RentalPackage{
	PackagePS3Only: {ID: PackagePS3Only, Name: "PS3 Only", Price: 60000, Items: []DeviceType{DeviceTypePS3}},
	PackagePS3TV:   {ID: PackagePS3TV, Name: "PS3 + TV", Price: 75000, Items: []DeviceType{DeviceTypePS3, DeviceTypeTV32}},
	PackagePS4Only: {ID: PackagePS4Only, Name: "PS4 Only", Price: 100000, Items: []DeviceType{DeviceTypePS4}},
	PackagePS4TV:   {ID: PackagePS4TV, Name: "PS4 + TV", Price: 135000, Items: []DeviceType{DeviceTypePS4, DeviceTypeTV32}},
}

var packageOrder = []PackageID{PackagePS3Only, PackagePS3TV, PackagePS4Only, PackagePS4TV}

// LookupPackage returns the catalog entry for id.
func LookupPackage(id PackageID) (RentalPackage, bool) {
	pkg, ok := rentalPackages[id]
	return pkg, ok
}

// Packages lists the catalog in display order.
func Packages() []RentalPackage {
	out := make([]RentalPackage, 0, len(packageOrder))
	for _, id := range packageOrder {
		out = append(out, rentalPackages[id])
	}
	return out
}

// Requires reports whether the package needs a unit of the given device type.
func (p RentalPackage) Requires(t DeviceType) bool {
	for _, item := range p.Items {
		if item == t {
			return true
		}
	}
	return false
}

// PackageAvailableCount returns how many of the package can be fulfilled right now:
// the minimum availability across its required device types. A device type with no
// inventory entry counts as zero.
func PackageAvailableCount(id PackageID, inventory []InventoryItem) int {
	pkg, ok := LookupPackage(id)
	if !ok || len(pkg.Items) == 0 {
		return 0
	}
	bottleneck := -1
	for _, t := range pkg.Items {
		count := 0
		for _, item := range inventory {
			if item.Type == t {
				count = item.Available
				break
			}
		}
		if bottleneck < 0 || count < bottleneck {
			bottleneck = count
		}
	}
	return bottleneck
}
