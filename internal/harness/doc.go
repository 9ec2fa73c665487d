// Package harness runs the game engine deterministically.
//
// It has two jobs: executing scenario files (scripted intents and clock
// advances with expectations) and replaying journaled runs to verify that
// the same intents, seed and timing reproduce the same outcomes.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: tiny_match
//	description: "Two flips of the same image form a pair"
//	seed: 1
//	presets:
//	  - name: tiny
//	    pair_count: 2
//	    grid_columns: 2
//	    images: [sun, moon]
//	steps:
//	  - choose: tiny
//	  - flip_image: sun
//	  - flip_image: sun
//	    expect: { checking: true, attempts: 1 }
//	  - advance: 800ms
//	    expect: { matched_pairs: 1, checking: false }
//
// Each step performs exactly one action: choose, flip (by card id),
// flip_image (lowest face-down card showing the image), advance (a Go
// duration), tick, restart or clear. expect checks the snapshot after the
// step; expect_error names the error code the step must fail with.
//
// # Deterministic Execution
//
// Every run uses a fresh testutil.FakeClock starting at testutil.Epoch, a
// seeded shuffle and sequential session ids, so the rendered trace is
// byte-identical across runs and can be compared against golden files:
//
//	go test ./internal/harness -update
package harness
