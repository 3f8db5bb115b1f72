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

// Package monitor is a websocket control surface for a running session.
//
// Every notice from the session is broadcast to connected clients as a JSON
// object:
//
//	{"session":"...","notice":"progress","state":"streaming","cursor":1200,"frames":5000,"overflow":0}
//
// Clients may send {"cmd":"stop"} to stop the session. Broadcasting never
// blocks the session. A client that cannot keep up loses messages.
package monitor
