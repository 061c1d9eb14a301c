// SPDX-License-Identifier: MIT

package epg

import "github.com/rs/zerolog"

func zerologNop() zerolog.Logger { return zerolog.Nop() }
