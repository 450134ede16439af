package resolving

import (
	"sort"
	"time"
)

// Versioned é a abstração de registro versionado dos logs append-only: a
// chave natural do fato, o inserted_at da ingestão como único sinal de
// recência e um fingerprint estável da tupla completa para desempate total.
type Versioned interface {
	NaturalKey() string
	Version() time.Time
	Fingerprint() string
}

// Stats resume uma redução de snapshot para o log de qualidade de dados.
type Stats struct {
	Records    int
	Keys       int
	Superseded int
	TieBreaks  int
}

// Latest reduz um log append-only a um registro por chave natural: vence o
// maior inserted_at; empate de timestamp resolve pelo maior fingerprint, de
// modo que execuções repetidas sobre a mesma entrada, em qualquer ordem,
// escolhem sempre o mesmo snapshot. A saída é ordenada por chave natural.
func Latest[T Versioned](records []T) ([]T, Stats) {
	stats := Stats{Records: len(records)}

	byKey := make(map[string]T, len(records))
	for _, rec := range records {
		key := rec.NaturalKey()

		current, ok := byKey[key]
		if !ok {
			byKey[key] = rec
			continue
		}

		switch {
		case rec.Version().After(current.Version()):
			byKey[key] = rec
		case rec.Version().Equal(current.Version()):
			stats.TieBreaks++
			if rec.Fingerprint() > current.Fingerprint() {
				byKey[key] = rec
			}
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	resolved := make([]T, 0, len(keys))
	for _, key := range keys {
		resolved = append(resolved, byKey[key])
	}

	stats.Keys = len(resolved)
	stats.Superseded = stats.Records - stats.Keys

	return resolved, stats
}

// LatestBatch trata feeds de snapshot completo (permissões, hierarquia): o
// estado atual é o lote de upload mais recente — todas as linhas com o maior
// inserted_at do feed — sem duplicatas exatas. Linha que some do lote mais
// novo é revogação, então lotes antigos são descartados por inteiro.
func LatestBatch[T Versioned](records []T) ([]T, Stats) {
	stats := Stats{Records: len(records)}
	if len(records) == 0 {
		return nil, stats
	}

	var newest time.Time
	for _, rec := range records {
		if rec.Version().After(newest) {
			newest = rec.Version()
		}
	}

	seen := make(map[string]bool)
	batch := make([]T, 0)
	for _, rec := range records {
		if !rec.Version().Equal(newest) {
			continue
		}
		if seen[rec.Fingerprint()] {
			stats.TieBreaks++
			continue
		}

		seen[rec.Fingerprint()] = true
		batch = append(batch, rec)
	}

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].NaturalKey() < batch[j].NaturalKey()
	})

	stats.Keys = len(batch)
	stats.Superseded = stats.Records - stats.Keys

	return batch, stats
}
