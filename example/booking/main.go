package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tbxark/leadflow/config"
	"github.com/tbxark/leadflow/flow"
	"github.com/tbxark/leadflow/types"
)

func main() {
	mode := flag.String("mode", "booking", "booking or contact")
	flag.Parse()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	ctx := context.Background()
	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	ctx = flow.WithVisitorKey(ctx, "console")
	in := bufio.NewReader(os.Stdin)
	switch *mode {
	case "booking":
		err = app.runBooking(ctx, in)
	case "contact":
		err = app.runContact(ctx, in)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		log.Fatalf("run: %v", err)
	}
}

func (a *app) runBooking(ctx context.Context, in *bufio.Reader) error {
	w, err := a.registry.Wizard(ctx)
	if err != nil {
		return err
	}
	if _, err = w.Open(types.LeadForm{}); err != nil {
		return err
	}
	defer w.Close()

	for {
		state := w.Snapshot()
		switch state.Step {
		case types.StepCollecting:
			if err := collect(in, types.MissingLeadFields(state.Form), w.SetField); err != nil {
				return err
			}
			fmt.Println("Analyzing your brand...")
			p, err := w.Submit(ctx)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if _, err := p.Wait(ctx); err != nil {
				return err
			}
		case types.StepPreviewing:
			if state.Err != nil {
				fmt.Printf("Booking failed: %v. Pick a time to try again.\n", state.Err)
			}
			fmt.Printf("\nStrategic moves for %s:\n%s\n", state.Form.BusinessName, types.FormatInsights(state.Insights))
			fmt.Println(types.FormatSlots(w.Slots()))
			slot, err := chooseSlot(in, w.Slots())
			if err != nil {
				return err
			}
			p, err := w.SelectSlot(ctx, slot)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if _, err := p.Wait(ctx); err != nil {
				return err
			}
		case types.StepConfirmed:
			fmt.Printf("\nYou're booked for %s. We'll reach out at %s.\n", state.Slot, state.Form.Email)
			return nil
		}
	}
}

func (a *app) runContact(ctx context.Context, in *bufio.Reader) error {
	c, err := a.registry.Contact(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	for {
		state := c.Snapshot()
		if state.Err != nil {
			fmt.Printf("Sending failed: %v\n", state.Err)
		}
		if err := collect(in, types.MissingContactFields(state.Form), c.SetField); err != nil {
			return err
		}
		p, err := c.Submit(ctx)
		if err != nil {
			fmt.Println(err)
			continue
		}
		state, err = p.Wait(ctx)
		if err != nil {
			return err
		}
		if state.Step == types.ContactSent {
			fmt.Println("Message sent. Talk soon.")
			return nil
		}
	}
}

func collect[S any](in *bufio.Reader, missing []types.FieldInfo, set func(pointer, value string) (S, error)) error {
	if len(missing) == 0 {
		return nil
	}
	fmt.Println(types.FormatMissingFields(missing))
	for _, field := range missing {
		fmt.Printf("%s: ", field.DisplayName)
		value, err := in.ReadString('\n')
		if err != nil {
			return err
		}
		if _, err := set(field.JSONPointer, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func chooseSlot(in *bufio.Reader, slots []types.Slot) (types.Slot, error) {
	for {
		fmt.Print("Pick a time (number): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(slots) {
			fmt.Println("Please enter one of the listed numbers.")
			continue
		}
		return slots[n-1], nil
	}
}
