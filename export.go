package astro

import (
	"fmt"
	"os"
)

// ExportConfig configures the streaming export of a propagated trajectory to
// CSV, adapted from the teacher's export.go ExportConfig/StreamStates — the
// Cosmographia JSON catalog/interpolated-state machinery (CgCatalog,
// CgItems, CgTrajectory, CgBodyFrame, CgGeometry, CgLabel,
// CgInterpolatedState) is dropped as an out-of-scope visualization concern
// (spec §1 Non-goals: "no visualization, plotting, or 3-D rendering").
type ExportConfig struct {
	Filename  string
	OutputDir string
	Append    func(s State) string // extra CSV columns, no leading comma
	AppendHdr func() string        // header for the extra columns
}

// IsUseless reports whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

func (c ExportConfig) outputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return "."
}

// createCSVFile opens the backing file and writes the orbital-element
// header, mirroring the teacher's createAsCSVCSVFile.
func createCSVFile(conf ExportConfig, startedAt Instant) (*os.File, error) {
	filename := fmt.Sprintf("%s/%s.csv", conf.outputDir(), conf.Filename)
	f, err := os.Create(filename)
	if err != nil {
		return nil, NewRuntimeError("create export file", filename, err)
	}
	if _, err := f.WriteString(fmt.Sprintf(
		"# Records are a, e, i, Omega, omega, nu. All angles are in degrees.\n"+
			"#   Simulation time start: %s\n"+
			"time,a,e,i,Omega,omega,nu,", startedAt)); err != nil {
		f.Close()
		return nil, NewRuntimeError("write export header", filename, err)
	}
	if conf.AppendHdr != nil {
		if _, err := f.WriteString(conf.AppendHdr()); err != nil {
			f.Close()
			return nil, NewRuntimeError("write export header", filename, err)
		}
	}
	return f, nil
}

// StreamStates drains stateChan, writing one CSV row per state (one
// osculating-element record per propagation step), adapted from the
// teacher's StreamStates to the new State/COE types and stripped of the
// Cosmographia trajectory-file bookkeeping.
func StreamStates(conf ExportConfig, stateChan <-chan State, body CelestialBody) error {
	if conf.IsUseless() {
		for range stateChan {
		}
		return nil
	}

	var f *os.File
	var lastInstant Instant

	for s := range stateChan {
		if f == nil {
			var err error
			f, err = createCSVFile(conf, s.Instant)
			if err != nil {
				return err
			}
			defer f.Close()
		}

		coe, err := NewCOEFromCartesian(s.Position(), s.Velocity(), body)
		if err != nil {
			return err
		}
		nu, err := coe.TrueAnom()
		if err != nil {
			return err
		}
		row := fmt.Sprintf("\n%s,%.6f,%.9f,%.6f,%.6f,%.6f,%.6f",
			s.Instant, coe.SMA, coe.Ecc, Rad2deg(coe.Inc), Rad2deg(coe.RAAN), Rad2deg(coe.AoP), Rad2deg(nu))
		if conf.Append != nil {
			row += "," + conf.Append(s)
		}
		if _, err := f.WriteString(row); err != nil {
			return NewRuntimeError("write export row", row, err)
		}
		lastInstant = s.Instant
	}

	if f != nil {
		f.WriteString(fmt.Sprintf("\n# Simulation end: %s\n", lastInstant))
	}
	return nil
}
