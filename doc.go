// Package astro implements orbital element conversions, numerical
// propagation, event detection, batch orbit determination, TLE parsing, and
// conjunction analysis for two-body and perturbed Earth-centric dynamics.
package astro
