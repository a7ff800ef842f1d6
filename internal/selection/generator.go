package selection

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/davisolsen/planpick/pkg/models"
)

// generalSubcategory is the bucket for products without a subcategory.
const generalSubcategory = "general"

// quantityByRoomType encodes expected fixture counts per room type and
// subcategory. Lookups fall back to the general sub-table, then to 1.
var quantityByRoomType = map[string]map[string]int{
	"kitchen": {
		"kitchen_faucet":   1,
		"kitchen_sink":     1,
		"dishwasher":       1,
		"refrigerator":     1,
		"pendant":          3,
		"ceiling":          2,
		"outlet":           6,
		"cabinet_hardware": 24,
	},
	"bathroom": {
		"bathroom_sink":    1,
		"bathroom_faucet":  1,
		"shower":           1,
		"toilet":           1,
		"pendant":          1,
		"ceiling":          1,
		"outlet":           4,
		"cabinet_hardware": 6,
	},
	"general": {
		"ceiling":    1,
		"outlet":     4,
		"thermostat": 1,
	},
}

// Generator expands a questionnaire and catalog into selections. Product
// choice within a subcategory bucket is uniform random; everything else
// (which rooms, categories and subcategories get a selection, and their
// ordering) is deterministic.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. Pass a seeded source for reproducible
// product choice; nil gets a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate produces one selection per (room, category, subcategory) triple
// present in the catalog, in room-major order with a strictly increasing
// sort order. It performs no I/O and writes nothing.
func (g *Generator) Generate(questionnaire *models.Questionnaire, products []models.Product) []models.Selection {
	grouped := groupProducts(products)

	selections := []models.Selection{}
	sortOrder := 0

	for _, room := range questionnaire.RoomList {
		for _, category := range questionnaire.CategoriesSelected {
			buckets, ok := grouped[category]
			if !ok {
				continue
			}

			for _, subcategory := range sortedKeys(buckets) {
				bucket := buckets[subcategory]
				product := bucket[g.rng.Intn(len(bucket))]

				quantity := quantityFor(room.Type, subcategory)

				selections = append(selections, models.Selection{
					RoomName:      room.Name,
					ProductID:     product.ID,
					ProductName:   product.Name,
					Quantity:      quantity,
					Finish:        resolveFinish(product.FinishOptions, questionnaire.FinishColors),
					UnitPrice:     product.UnitPrice,
					ExtendedPrice: product.UnitPrice * float64(quantity),
					SortOrder:     sortOrder,
				})
				sortOrder++
			}
		}
	}

	return selections
}

// groupProducts buckets products by category, then subcategory.
func groupProducts(products []models.Product) map[string]map[string][]models.Product {
	grouped := make(map[string]map[string][]models.Product)
	for _, product := range products {
		subcategory := product.Subcategory
		if subcategory == "" {
			subcategory = generalSubcategory
		}

		buckets, ok := grouped[product.Category]
		if !ok {
			buckets = make(map[string][]models.Product)
			grouped[product.Category] = buckets
		}
		buckets[subcategory] = append(buckets[subcategory], product)
	}
	return grouped
}

// quantityFor looks up the fixture count for a room type and subcategory.
func quantityFor(roomType, subcategory string) int {
	if quantities, ok := quantityByRoomType[roomType]; ok {
		if qty, ok := quantities[subcategory]; ok {
			return qty
		}
	}
	if qty, ok := quantityByRoomType["general"][subcategory]; ok {
		return qty
	}
	return 1
}

// resolveFinish picks the first finish option containing any preferred
// finish, case-insensitively, falling back to the first listed option. A
// product without finish options gets none.
func resolveFinish(options []string, preferred []string) *string {
	if len(options) == 0 {
		return nil
	}

	for _, option := range options {
		lower := strings.ToLower(option)
		for _, pref := range preferred {
			if pref != "" && strings.Contains(lower, strings.ToLower(pref)) {
				return &option
			}
		}
	}

	return &options[0]
}

func sortedKeys(buckets map[string][]models.Product) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
