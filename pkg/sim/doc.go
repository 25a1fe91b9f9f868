// Package sim implements an iterative force-directed layout.
//
// The integrator follows the d3-force model. Each call to [Simulation.Tick]
// cools alpha toward alphaTarget, lets every registered [Force] adjust node
// velocities, then moves nodes by their damped velocity. Nodes with a pinned
// position (FX/FY) are snapped to the pin with zero velocity.
//
// # Forces
//
//   - [Link]: spring along links, default strength 1/min(deg(s), deg(t))
//   - [ManyBody]: charge between all node pairs, approximated with a
//     Barnes-Hut quadtree from gonum's spatial/barneshut
//   - [Center]: translates the layout so its mean sits at a fixed point
//   - [Group]: pulls nodes toward per-cluster foci and weakens links by
//     cluster membership
//
// # Lifecycle
//
//	s := sim.New(nodes, sim.WithSeed(42))
//	s.AddForce("link", sim.NewLink(links))
//	for s.Running() {
//	    s.Step()
//	}
//
// A Simulation is not safe for concurrent use. Callers drive it from a
// single goroutine, typically the application event loop.
package sim
