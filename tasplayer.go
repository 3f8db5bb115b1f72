// This file is part of tasplayer.
//
// tasplayer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tasplayer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tasplayer.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/modalflag"
	"github.com/jetsetilly/tasplayer/monitor"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/notifications"
	"github.com/jetsetilly/tasplayer/paths"
	"github.com/jetsetilly/tasplayer/runfile"
	"github.com/jetsetilly/tasplayer/serial"
	"github.com/jetsetilly/tasplayer/session"
	"github.com/jetsetilly/tasplayer/statsview"
	"github.com/jetsetilly/tasplayer/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used by the RUN mode, which stops the
	// session gracefully on an interrupt.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// default ctrl-c handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Stop(intChan)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "VERIFY", "INSPECT", "PACK", "LIST", "PORTS", "PREFS", "SCHEMA", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)
	case "VERIFY":
		err = verify(md)
	case "INSPECT":
		err = inspect(md)
	case "PACK":
		err = pack(md)
	case "LIST":
		err = list(md)
	case "PORTS":
		err = ports(md)
	case "PREFS":
		err = preferences(md)
	case "SCHEMA":
		err = schema(md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// oneArg returns the only argument remaining after parsing.
func oneArg(md *modalflag.Modes, what string) (string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return "", fmt.Errorf("%s required for %s mode", what, md)
	case 1:
		return md.GetArg(0), nil
	}
	return "", fmt.Errorf("too many arguments for %s mode", md)
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	rf := addRunFlags(md)
	port := md.AddString("serial", "", "serial device (default: first device found)")
	timeout := md.AddDuration("timeout", 0, "time to wait for a command to be acknowledged (default from preferences)")
	monitorAddr := md.AddString("monitor", "", "address for the websocket monitor. eg. localhost:12700")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.DefaultAddress))
	log := md.AddBool("log", false, "echo log to stdout")
	verbose := md.AddBool("verbose", false, "include progress in log")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(logger.NewColorizer(os.Stdout, "device"), false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *stats {
		statsview.Launch(os.Stdout, "")
	}

	filename, err := oneArg(md, "run container or movie file")
	if err != nil {
		return err
	}

	d, data, err := loadRun(filename)
	if err != nil {
		return err
	}
	if err := rf.apply(md, d); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	prf, err := session.NewPreferences()
	if err != nil {
		return err
	}

	opts := session.DefaultOptions()
	prf.Apply(&opts)
	if err := opts.FromDescriptor(d, data); err != nil {
		return err
	}
	opts.Pump.Verbose = *verbose

	if *port == "" {
		found, err := serial.Discover()
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("no replay device found. use -serial to specify the device")
		}
		*port = found[0]
	}

	sp, err := serial.Open(*port, prf.SerialConfig())
	if err != nil {
		return err
	}
	defer sp.Close()

	devCfg := prf.DeviceConfig()
	if md.IsSet("timeout") {
		devCfg.AckTimeout = *timeout
	}
	dev := device.NewDevice(sp, devCfg)

	notify := notifications.Fanout{progress{}}

	var mon *monitor.Server
	if *monitorAddr != "" {
		mon = monitor.NewServer()
		if err := mon.Listen(*monitorAddr); err != nil {
			return err
		}
		defer mon.Close()
		notify = append(notify, mon)
		fmt.Printf("! monitor available at ws://%s\n", mon.Addr())
	}

	s, err := session.New(dev, opts, notify)
	if err != nil {
		return err
	}
	if mon != nil {
		mon.SetStop(s.Stop)
	}

	// an interrupt stops the session rather than quitting immediately
	sync.state <- stateRequest{req: reqNoIntSig}
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)
	go func() {
		for range intChan {
			fmt.Println("\r! stopping")
			s.Stop()
		}
	}()

	fmt.Printf("! %s on %s (session %s)\n", d, sp, s.ID)

	if err := s.Start(context.Background()); err != nil {
		return err
	}
	st, err := s.Wait()
	if err != nil {
		return err
	}

	fmt.Printf("! run %s\n", st)
	return nil
}

// progress prints notices of interest to the terminal.
type progress struct{}

func (progress) Notify(notice notifications.Notice, status notifications.Status) error {
	switch notice {
	case notifications.NotifyPrimed:
		fmt.Printf("! primed: %d of %d frames sent (overflow %d)\n", status.Cursor, status.Frames, status.Overflow)
	case notifications.NotifyProgress:
		fmt.Printf("\r! frame %d of %d", status.Cursor, status.Frames)
	case notifications.NotifyEnded:
		fmt.Print("\r")
	}
	return nil
}

func verify(md *modalflag.Modes) error {
	md.NewMode()

	rf := addRunFlags(md)
	viz := md.AddString("memviz", "", "write graphviz description of the decoded run to file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := oneArg(md, "run container or movie file")
	if err != nil {
		return err
	}

	d, data, err := loadRun(filename)
	if err != nil {
		return err
	}
	if err := rf.apply(md, d); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	opts := session.DefaultOptions()
	if err := opts.FromDescriptor(d, data); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	mv, err := movie.Decode(opts.Console, opts.Movie, opts.Players)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", mv)
	fmt.Printf("%d blank frames. %d transitions. %d latches in latch train\n",
		opts.Blanks, len(opts.Transitions), len(opts.LatchTrain))
	for _, t := range opts.Transitions {
		if t.Frame >= uint32(mv.Len()) {
			fmt.Printf("transition at frame %d is beyond the end of the movie\n", t.Frame)
		}
	}

	if *viz != "" {
		f, err := os.Create(*viz)
		if err != nil {
			return err
		}
		memviz.Map(f, d, mv)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func inspect(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := oneArg(md, "run container")
	if err != nil {
		return err
	}

	d, data, err := runfile.Load(filename)
	if err != nil {
		return err
	}

	inspectRun(os.Stdout, d, len(data))
	return nil
}

func pack(md *modalflag.Modes) error {
	md.NewMode()

	rf := addRunFlags(md)
	out := md.AddString("out", "", "run container to create")
	name := md.AddString("name", "", "name of the run")
	authors := md.AddString("authors", "", "authors of the run")
	description := md.AddString("description", "", "description of the run")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := oneArg(md, "movie file")
	if err != nil {
		return err
	}
	if runfile.IsContainer(filename) {
		return fmt.Errorf("%s is already a run container", filename)
	}
	if *out == "" {
		return fmt.Errorf("-out is required for %s mode", md)
	}

	d, data, err := loadRun(filename)
	if err != nil {
		return err
	}
	if err := rf.apply(md, d); err != nil {
		return err
	}
	if *name != "" {
		d.Name = *name
	}
	d.Authors = *authors
	d.Description = *description

	if err := d.Validate(); err != nil {
		return err
	}

	// check that the movie can be decoded before packing it
	opts := session.DefaultOptions()
	if err := opts.FromDescriptor(d, data); err != nil {
		return err
	}
	if _, err := movie.Decode(opts.Console, opts.Movie, opts.Players); err != nil {
		return err
	}

	if err := runfile.Save(*out, d, data); err != nil {
		return err
	}

	fmt.Printf("! %s written to %s\n", d, *out)
	return nil
}

func list(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var dir string
	switch len(md.RemainingArgs()) {
	case 0:
		dir, err = paths.ResourcePath("runs", "")
		if err != nil {
			return err
		}
	case 1:
		dir = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	runs, err := runfile.Find(dir)
	if err != nil {
		return err
	}

	for _, r := range runs {
		d, _, err := runfile.Load(r)
		if err != nil {
			fmt.Printf("%s: %v\n", r, err)
			continue
		}
		fmt.Printf("%s: %s\n", r, d)
	}
	return nil
}

func ports(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	found, err := serial.Discover()
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("no replay device found")
		return nil
	}
	for _, f := range found {
		fmt.Println(f)
	}
	return nil
}

func preferences(md *modalflag.Modes) error {
	md.NewMode()

	save := md.AddBool("save", false, "write the preferences file")
	defaults := md.AddBool("defaults", false, "restore default values before saving")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := session.NewPreferences()
	if err != nil {
		return err
	}

	if *defaults {
		prf.SetDefaults()
	}
	if *save || *defaults {
		if err := prf.Save(); err != nil {
			return err
		}
	}

	fmt.Print(prf)
	return nil
}

func schema(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	b, err := json.MarshalIndent(runfile.Schema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control system (if available)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Printf("%s %s\n", version.ApplicationName, ver)
	if *revision {
		fmt.Println(rev)
	}
	return nil
}
