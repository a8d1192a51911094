// Package pipeline defines the boundary to the external image-to-3D
// generator. The generator is opaque: this repository only hands it a
// keyframe image and a seed, and writes whatever asset it returns.
//
// HTTPClient is the concrete collaborator used by the batch driver. It
// talks to an inference service that hosts the pretrained model.
package pipeline
