// Package transform holds the text rewrites applied to template sources
// before and after the external compilers run.
package transform

import (
	"strconv"
	"strings"
	"time"
)

// Header is prefixed to every compressed bundle. Its $Id$ keyword is
// expanded at write time.
const Header = `/**
 * This file is part of the UNL WDN templates.
 * @see http://wdn.unl.edu/
 * $Id$
 */

`

// DebugHeader is prefixed to the generated debug stylesheet.
const DebugHeader = `/*
*
* !DO NOT EDIT THIS FILE, IT IS BUILT WITH THE PROJECT BUILD PROCESS
*
* ---------------------------
* run ` + "`make debug`" + ` to rebuild this file
* ---------------------------
*/

`

// FormatDate renders date like the default format of git log. The hour
// carries no leading zero.
func FormatDate(date time.Time) string {
	return date.Format("Mon Jan 2 ") + strconv.Itoa(date.Hour()) + date.Format(":04:05 2006 -0700")
}

// ExpandKeywords replaces the $Id$ keyword in input with the file name, the
// date and the author, the way svn keyword expansion does.
func ExpandKeywords(file, input string, date time.Time, author string) string {
	id := "$Id: " + strings.Join([]string{file, FormatDate(date), author}, " | ") + "  $"
	return strings.ReplaceAll(input, "$Id$", id)
}
