// Package webgpu provides embedded WGSL compute shaders for scatter operations.
package webgpu

// WGSL compute shaders for scatter operations.
// Using string constants instead of embed for simplicity.
//
// Both shaders assign one thread per output grid element and walk the
// entity list in ascending order, so collision resolution is
// deterministic and accumulation order matches the CPU reference
// backend exactly.

// scatterShader scatters entity features into a dense grid using
// combined (row, column) location pairs. Output layout: (B, N, H, W).
const scatterShader = `
@group(0) @binding(0) var<storage, read> features: array<f32>;
@group(0) @binding(1) var<storage, read> locations: array<i32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    batch: u32,
    entities: u32,
    channels: u32,
    height: u32,
    width: u32,
    mode: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    let cells = params.height * params.width;
    let total = params.batch * params.channels * cells;
    if (idx >= total) {
        return;
    }

    let cell = idx % cells;
    let n = (idx / cells) % params.channels;
    let b = idx / (cells * params.channels);

    var value: f32 = 0.0;
    for (var m: u32 = 0u; m < params.entities; m = m + 1u) {
        let e = b * params.entities + m;
        let row = u32(locations[e * 2u]);
        let col = u32(locations[e * 2u + 1u]);
        if (row * params.width + col == cell) {
            let v = features[e * params.channels + n];
            if (params.mode == 0u) {
                value = v;
            } else {
                value = value + v;
            }
        }
    }
    result[idx] = value;
}
`

// scatterXYShader scatters entity features into a dense grid using
// separate coordinate arrays. The flat cell index is coordX * W + coordY.
// Output layout: (B, N, H, W).
const scatterXYShader = `
@group(0) @binding(0) var<storage, read> features: array<f32>;
@group(0) @binding(1) var<storage, read> coord_x: array<i32>;
@group(0) @binding(2) var<storage, read> coord_y: array<i32>;
@group(0) @binding(3) var<storage, read_write> result: array<f32>;

struct Params {
    batch: u32,
    entities: u32,
    channels: u32,
    height: u32,
    width: u32,
    mode: u32,
}
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    let cells = params.height * params.width;
    let total = params.batch * params.channels * cells;
    if (idx >= total) {
        return;
    }

    let cell = idx % cells;
    let n = (idx / cells) % params.channels;
    let b = idx / (cells * params.channels);

    var value: f32 = 0.0;
    for (var m: u32 = 0u; m < params.entities; m = m + 1u) {
        let e = b * params.entities + m;
        let x = u32(coord_x[e]);
        let y = u32(coord_y[e]);
        if (x * params.width + y == cell) {
            let v = features[e * params.channels + n];
            if (params.mode == 0u) {
                value = v;
            } else {
                value = value + v;
            }
        }
    }
    result[idx] = value;
}
`
