// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package psd

import (
	"encoding/hex"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomBytes(rng *rand.Rand, maxLen int) []byte {
	b := make([]byte, rng.Intn(maxLen+1))
	rng.Read(b)
	return b
}

// ============================================================
// Checksum Fuzz Tests
// ============================================================

func TestFuzz_ChecksumRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 64)
		if len(data) == 0 {
			// Two checksum bytes alone are below the 3-byte minimum
			continue
		}
		if !VerifyChecksum(AppendChecksum(data)) {
			t.Fatalf("round %d: round trip failed for % X", i, data)
		}
	}
}

func TestFuzz_ShortInputsNeverVerify(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 2)
		if VerifyChecksum(data) {
			t.Fatalf("round %d: VerifyChecksum(% X) = true", i, data)
		}
	}
}

func TestFuzz_SingleBitFlipDetected(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 32)
		frame := AppendChecksum(append(data, 0x00))
		pos := rng.Intn(len(frame))
		frame[pos] ^= 1 << uint(rng.Intn(8))
		if VerifyChecksum(frame) {
			t.Fatalf("round %d: bit flip at byte %d not detected in % X", i, pos, frame)
		}
	}
}

// ============================================================
// Classifier Fuzz Tests
// ============================================================

func TestFuzz_ClassifyRandomText(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	alphabet := "0123456789abcdefABCDEF xyz-"

	for i := 0; i < rounds; i++ {
		n := rng.Intn(48)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		in := string(buf)

		r := Classify(in)
		if r.OriginalHex != in {
			t.Fatalf("round %d: OriginalHex = %q, want %q", i, r.OriginalHex, in)
		}
		if r.Command == Unknown && r.ErrorMessage == "" {
			t.Fatalf("round %d: unknown result without error for %q", i, in)
		}
		if r.Command != Unknown && (!r.ChecksumValid || r.ErrorMessage != "") {
			t.Fatalf("round %d: inconsistent known result %+v", i, r)
		}
		if Classify(in) != r {
			t.Fatalf("round %d: Classify not deterministic for %q", i, in)
		}
	}
}

func TestFuzz_EncodedCommandsClassify(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	cmds := Commands()

	for i := 0; i < rounds; i++ {
		cmd := cmds[rng.Intn(len(cmds))]
		payload := make([]byte, MinPayloadSize+rng.Intn(16))
		rng.Read(payload)

		frame := MustEncodeCommand(cmd, payload)
		r := Classify(hex.EncodeToString(frame))
		if !r.Recognized() || r.Command != cmd {
			t.Fatalf("round %d: %s payload % X classified as %+v", i, cmd, payload, r)
		}
	}
}
