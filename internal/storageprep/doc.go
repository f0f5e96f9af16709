// Package storageprep trims staged key directories down to the layout the
// archive keeps.
//
// Preparation consolidates the optimized scene mesh, prunes object renders
// to their mp4 previews, writes the objects index, and deletes every
// intermediate artifact. The result is the minimal tree the archive stores:
// simulation/, reconstruction/ (objects + scene.glb), scene/scene.pkl,
// source/ first frames, and the metadata sidecar.
package storageprep
