// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the validated representation of an emulation
// configuration. Build consumes a raw config.Document, checks every rule a
// document must satisfy and returns an immutable System, or a single bundled
// report listing every violation found.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - System: The root aggregate. It holds the robot, the modules, the three
//     top-level sources, the optional system-unique-id and the extra mounts.
//
//   - Robot: Exactly one OT-2 or OT-3. It carries the source its robot server
//     runs from, its pipettes and the env-var overrides of the services that
//     exist only because of it (smoothie, CAN server, state manager, OT-3
//     firmware subcomponents).
//
//   - Module: A heater-shaker, thermocycler, temperature or magnetic module.
//     Hardware-specific attributes are decoded into typed values with defaults
//     applied.
//
//   - ExtraMount: A host path bind-mounted into named containers. Whether the
//     target containers exist is decided by the orchestrator, which is the only
//     place that knows which services get emitted.
package model
