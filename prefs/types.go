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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Value represents the actual Go preference value.
type Value any

// pref is the interface all preference types must satisfy to be added to a
// Disk instance.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// hooks are shared by all preference types. hookPre is called before the new
// value is stored and can veto the change by returning an error.
type hooks struct {
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

// SetHookPre sets the callback function to be called just before the value
// is changed.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.hookPre = f
}

// SetHookPost sets the callback function to be called just after the value
// is changed.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.hookPost = f
}

func (h *hooks) store(nv Value, store func()) error {
	if h.hookPre != nil {
		if err := h.hookPre(nv); err != nil {
			return err
		}
	}
	store()
	if h.hookPost != nil {
		if err := h.hookPost(nv); err != nil {
			return err
		}
	}
	return nil
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	hooks
	value atomic.Bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// String implements a string type in the prefs system.
type String struct {
	hooks
	value atomic.Value // string
}

func (p *String) String() string {
	ov := p.value.Load()
	if ov == nil {
		return ""
	}
	return ov.(string)
}

// Set new value to String type. New value must be of type string.
func (p *String) Set(v Value) error {
	nv, ok := v.(string)
	if !ok {
		return fmt.Errorf("prefs: cannot convert %T to prefs.String", v)
	}
	nv = strings.TrimSpace(nv)
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// Int implements an integer type in the prefs system.
type Int struct {
	hooks
	value atomic.Int64
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.value.Load())
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int:
		nv = v
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}
	return p.store(nv, func() { p.value.Store(int64(nv)) })
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// Float implements a floating point type in the prefs system.
type Float struct {
	hooks
	value atomic.Value // float64
}

func (p *Float) String() string {
	return strconv.FormatFloat(p.Get().(float64), 'f', -1, 64)
}

// Set new value to Float type. New value can be a float64 or string.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case string:
		var err error
		nv, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Float", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Float", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Float) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return 0.0
	}
	return ov.(float64)
}

// Reset sets the float value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}

// Duration implements a time.Duration type in the prefs system. The string
// representation is the one used by time.ParseDuration().
type Duration struct {
	hooks
	value atomic.Int64
}

func (p *Duration) String() string {
	return time.Duration(p.value.Load()).String()
}

// Set new value to Duration type. New value can be a time.Duration or a
// string in the format accepted by time.ParseDuration().
func (p *Duration) Set(v Value) error {
	var nv time.Duration
	switch v := v.(type) {
	case time.Duration:
		nv = v
	case string:
		var err error
		nv, err = time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Duration", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Duration", v)
	}
	if nv < 0 {
		return fmt.Errorf("prefs: negative duration (%v)", nv)
	}
	return p.store(nv, func() { p.value.Store(int64(nv)) })
}

// Get returns the raw pref value.
func (p *Duration) Get() Value {
	return time.Duration(p.value.Load())
}

// Reset sets the duration to zero.
func (p *Duration) Reset() error {
	return p.Set(time.Duration(0))
}

// Generic is a general purpose prefererences type, useful for values that
// cannot be represented by a single primitive type.
type Generic struct {
	set func(string) error
	get func() string
}

// NewGeneric is the preferred method of initialisation for the Generic type.
func NewGeneric(set func(string) error, get func() string) *Generic {
	return &Generic{
		set: set,
		get: get,
	}
}

func (p *Generic) String() string {
	return p.get()
}

// Set new value to Generic type. New value must be a string.
func (p *Generic) Set(v Value) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("prefs: cannot convert %T to prefs.Generic", v)
	}
	return p.set(strings.TrimSpace(s))
}

// Get returns the raw pref value.
func (p *Generic) Get() Value {
	return p.get()
}

// Reset does nothing for the Generic type. The owner of the type knows the
// meaning of the default value.
func (p *Generic) Reset() error {
	return nil
}
