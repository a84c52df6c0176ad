// SPDX-License-Identifier: EPL-2.0

// Package wavegen synthesises sample arrays for waveform slots, either
// from built-in shapes or from a small Lua script.
//
//	i, q, err := wavegen.Generate("drag", 256, wavegen.Params{Amplitude: 0.8, Beta: 4})
//
//	ch1, _, err := wavegen.Script{Source: `
//	function sample(i, n)
//		return math.sin(2 * math.pi * i / n) * 0.5
//	end`}.Eval(ctx, 1024)
package wavegen
