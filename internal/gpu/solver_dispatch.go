//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// dispatch uploads the inputs, runs one compute pass over n rays and reads
// the outcome buffer back.
func (s *Solver) dispatch(n int, params, rays, edges, owners, profiles []byte) ([]byte, error) {
	outSize := uint64(n * rayOutSize) //nolint:gosec // bounded by ray capacity

	type upload struct {
		label string
		data  []byte
		usage gputypes.BufferUsage
	}
	uploads := []upload{
		{"ray_solve_params", params, gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
		{"ray_solve_rays", rays, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{"ray_solve_edges", edges, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{"ray_solve_owners", owners, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{"ray_solve_profiles", profiles, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
	}

	buffers := make([]hal.Buffer, 0, len(uploads)+2)
	defer func() {
		for _, b := range buffers {
			s.device.DestroyBuffer(b)
		}
	}()

	entries := make([]gputypes.BindGroupEntry, 0, len(uploads)+1)
	for i, u := range uploads {
		buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
			Label: u.label, Size: uint64(len(u.data)), Usage: u.usage,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s buffer: %w", u.label, err)
		}
		buffers = append(buffers, buf)
		s.queue.WriteBuffer(buf, 0, u.data)
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i), //nolint:gosec // binding index is small
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(u.data))},
		})
	}

	outBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ray_solve_outcomes", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create outcome buffer: %w", err)
	}
	buffers = append(buffers, outBuf)
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  5,
		Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize},
	})

	stagingBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ray_solve_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	buffers = append(buffers, stagingBuf)

	bg, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "ray_solve_bind", Layout: s.bindLayout, Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer s.device.DestroyBindGroup(bg)

	if err := s.submit(bg, outBuf, stagingBuf, n, outSize); err != nil {
		return nil, err
	}

	readback := make([]byte, outSize)
	if err := s.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	slogger().Debug("gpu-solver: dispatch complete", "rays", n)
	return readback, nil
}

func (s *Solver) submit(bg hal.BindGroup, outBuf, stagingBuf hal.Buffer, n int, outSize uint64) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "ray_solve_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ray_solve"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "ray_solve_pass"})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(uint32((n+workgroupSize-1)/workgroupSize), 1, 1) //nolint:gosec // bounded by ray capacity
	pass.End()

	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := s.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}
