// Package compile orchestrates the full run: expand definitions over the
// window, compress movable dates into recurrence runs, mint or reuse rule
// identifiers, and write one calendar per region plus the updated
// definitions file.
package compile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"holcal/internal/compress"
	"holcal/internal/config"
	"holcal/internal/holiday"
	"holcal/internal/ical"
	appLog "holcal/internal/log"
)

// Compiler runs the definitions→calendars pipeline. Gen and Now default to
// real randomness and the wall clock; tests inject deterministic ones.
type Compiler struct {
	Conf *config.Config
	Gen  holiday.Generator
	Now  func() time.Time
}

// Run compiles every region and, after all calendars are written, saves the
// definitions file once with any newly minted identifiers. A failing region
// aborts the run before the write-back, so the identifier store is never
// half-updated.
func (c *Compiler) Run() error {
	conf := c.Conf
	if err := conf.Validate(); err != nil {
		return err
	}
	gen := c.Gen
	if gen == nil {
		gen = holiday.NewUUID
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	defs, err := holiday.Load(conf.Definitions)
	if err != nil {
		appLog.Error("failed to load definitions", err, "path", conf.Definitions)
		return err
	}

	stamp := now().UTC()
	for _, region := range sortedKeys(defs) {
		events, err := c.compileRegion(region, defs[region], gen)
		if err != nil {
			appLog.Error("region compile failed", err, "region", region)
			return fmt.Errorf("region %s: %w", region, err)
		}

		cal := ical.NewCalendar(region, conf.ProdID, events, stamp)
		path := filepath.Join(conf.OutputDir, strings.ToLower(region)+".ics")
		if err := config.WriteFileAtomic(path, []byte(cal.Serialize()), 0o644); err != nil {
			appLog.Error("failed to write calendar", err, "region", region, "path", path)
			return err
		}
		appLog.Info("calendar written", "region", region, "path", path, "event_count", len(events))
	}

	if err := holiday.Save(conf.Definitions, defs); err != nil {
		appLog.Error("failed to save definitions", err, "path", conf.Definitions)
		return err
	}
	appLog.Info("definitions saved", "path", conf.Definitions)
	return nil
}

func (c *Compiler) compileRegion(name string, region *holiday.Region, gen holiday.Generator) ([]ical.Event, error) {
	events := make([]ical.Event, 0)

	for _, title := range sortedKeys(region.Repeat) {
		def := region.Repeat[title]
		dates, err := def.Dates(c.Conf.StartYear, c.Conf.EndYear)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", title, err)
		}
		if def.IDs == nil {
			def.IDs = holiday.Store{}
		}
		uid := def.IDs.GetOrCreate(holiday.FixedKey, gen)
		ev := ical.FixedEvent(title, uid, dates, c.Conf.EndYear)
		if err := ical.Verify(ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	for _, title := range sortedKeys(region.Easter) {
		def := region.Easter[title]
		evs, err := c.compileMovable(title, def, gen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", title, err)
		}
		events = append(events, evs...)
	}

	appLog.Debug("region compiled", "region", name, "event_count", len(events))
	return events, nil
}

// monthDay buckets movable dates by the calendar date they landed on. The
// bucket year is the resulting date's own year, so rules reproduce exactly
// the dates the engine computed even when an offset crosses a year boundary.
type monthDay struct {
	month time.Month
	day   int
}

func (c *Compiler) compileMovable(title string, def *holiday.Movable, gen holiday.Generator) ([]ical.Event, error) {
	dates, err := def.Dates(c.Conf.StartYear, c.Conf.EndYear)
	if err != nil {
		return nil, err
	}
	if def.IDs == nil {
		def.IDs = holiday.Store{}
	}

	buckets := make(map[monthDay][]int)
	for _, dt := range dates {
		k := monthDay{dt.Month(), dt.Day()}
		buckets[k] = append(buckets[k], dt.Year())
	}

	keys := make([]monthDay, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].day < keys[j].day
	})

	events := make([]ical.Event, 0, len(keys))
	for _, k := range keys {
		runs := compress.Partition(buckets[k])
		appLog.Debug("bucket compressed",
			"holiday", title,
			"month", int(k.month), "day", k.day,
			"years", len(buckets[k]), "runs", len(runs),
		)
		for _, run := range runs {
			uid := def.IDs.GetOrCreate(holiday.RuleKey(k.month, k.day, run.Start, run.Interval), gen)
			ev := ical.RunEvent(title, uid, k.month, k.day, run)
			if err := ical.Verify(ev); err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
