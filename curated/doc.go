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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and remember the pattern they
// were created with. Packages in tasplayer declare their error patterns as
// exported const strings so that callers can test for a category of failure
// without inspecting the message text. For example, the device package
// declares:
//
//	const LinkTimeout = "device: timeout waiting for %s"
//
// and the session package can ask:
//
//	if curated.Has(err, device.LinkTimeout) {
//		...
//	}
//
// Is() answers whether the outermost error was created with the pattern.
// Has() answers whether the pattern occurs anywhere in the chain of curated
// errors passed as formatting values. IsAny() answers whether the error is
// curated at all, which is how the command line decides between an expected
// failure (printed plainly) and an unexpected one.
//
// The Error() implementation removes duplicate adjacent parts from the
// message. Chains are made of parts separated by ": " so wrapping an error in
// the same prefix twice does not repeat that prefix in the final message:
//
//	e := curated.Errorf("device: %v", curated.Errorf("device: no ack"))
//	fmt.Println(e) // device: no ack
package curated
