// Package viz draws world frames as braille text or SVG.
//
// A [Canvas] packs 2x4 sub-pixels into each braille cell. [Render] projects
// a frame top-down onto the X/Z plane and paints the sun, planets, trails
// and explosions onto separate layers so each can carry its own [Theme]
// color.
package viz
