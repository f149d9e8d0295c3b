// Command gen-testdata emits a sorted, TAB-delimited record file suitable
// for cmd/datbuild: each line is a key (derived via HMAC so keys are
// uniformly distributed and collision-free in practice) followed by a TAB
// and a random value.
package main

import (
	"bufio"
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

const (
	prefix    = "pref_"
	suffixLen = 16
	hmacKey   = "d259c7f656caf7f1"
)

func newRand() *rand.Rand {
	var seedBytes [8]byte
	_, _ = crand.Read(seedBytes[:])
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return rand.New(rand.NewSource(seed))
}

type pair struct {
	key, value string
}

func main() {
	n := flag.Int("n", 100000, "number of records to generate")
	flag.Parse()

	rng := newRand()
	h := hmac.New(sha256.New, []byte(hmacKey))

	pairs := make([]pair, 0, *n)
	seen := make(map[string]struct{}, *n)
	for len(pairs) < *n {
		var buf [suffixLen / 2]byte
		if _, err := rng.Read(buf[:]); err != nil {
			panic(err)
		}
		value := fmt.Sprintf("%s%x", prefix, buf)
		h.Reset()
		h.Write([]byte(value))
		key := hex.EncodeToString(h.Sum(nil))

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, pair{key: key, value: value})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, p := range pairs {
		fmt.Fprintf(w, "%s\t%s\n", p.key, p.value)
	}
}
