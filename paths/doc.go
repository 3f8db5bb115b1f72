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

// Package paths contains functions to prepare paths to tasplayer resources.
//
// The policy of ResourcePath() is simple: if a directory named ".tasplayer"
// is present in the program's current directory then that is the base path.
// Otherwise the base path is the "tasplayer" directory in the user's config
// directory, as returned by os.UserConfigDir(). On a modern Linux system the
// preferences file is therefore found at:
//
//	/home/user/.config/tasplayer/preferences
//
// The directory is created if it does not exist.
package paths
