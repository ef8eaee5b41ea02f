package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"platebench/pkg/common"
)

var (
	statuses = []string{"Habilitada", "Suspendida", "Bloqueada"}
	// 累积权重 80/15/5
	statusWeights = []int{80, 95, 100}

	cities = []string{"Riobamba", "Quito", "Guayaquil", "Cuenca", "Ambato", "Latacunga"}

	locations = []string{
		"Peaje Norte", "Peaje Sur", "Av. Principal", "Entrada Ciudad",
		"Salida Ciudad", "Puente Central", "Redondel Este", "Terminal Terrestre",
	}

	baseDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const DateLayout = "2006-01-02 15:04:05"

// Generate builds n synthetic vehicle records with plates shaped LLL-DDDD
// stored under keyField (the default plate field when empty). The same seed
// yields the same records. Plates may repeat, as they do in real camera logs.
func Generate(n int, seed int64, keyField string) []common.Record {
	if n <= 0 {
		return []common.Record{}
	}
	if keyField == "" {
		keyField = common.DefaultKeyField
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]common.Record, n)
	for i := range out {
		out[i] = common.Record{
			"id":             i + 1,
			keyField:         RandomPlate(rng),
			"fecha_registro": baseDate.Add(time.Duration(rng.Int63n(int64(365 * 24 * time.Hour)))).Format(DateLayout),
			StatusField:      pickStatus(rng),
			LocationField:    locations[rng.Intn(len(locations))],
			CityField:        cities[rng.Intn(len(cities))],
		}
	}
	return out
}

func RandomPlate(rng *rand.Rand) string {
	var letters [3]byte
	for i := range letters {
		letters[i] = byte('A' + rng.Intn(26))
	}
	return fmt.Sprintf("%s-%04d", letters[:], rng.Intn(10000))
}

func pickStatus(rng *rand.Rand) string {
	r := rng.Intn(100)
	for i, w := range statusWeights {
		if r < w {
			return statuses[i]
		}
	}
	return statuses[0]
}
